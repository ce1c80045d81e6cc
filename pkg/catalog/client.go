package catalog

import (
	"context"
	"fmt"

	"ai-autoparts-be/pkg/restcache"
)

// API constants for the vehicle catalog. The demo only deals with passenger
// cars in English.
const (
	TypePassengerCar = 1
	LangEnglish      = 4
)

// Client wraps the auto-parts catalog REST API. Every lookup goes through the
// shared cached GET client since catalog data changes rarely and the upstream
// meters requests.
type Client struct {
	Host   string
	apiKey string
	rest   *restcache.Client
}

func NewClient(host, apiKey string, rest *restcache.Client) *Client {
	return &Client{
		Host:   host,
		apiKey: apiKey,
		rest:   rest,
	}
}

func (c *Client) headers() map[string]string {
	return map[string]string{
		"x-rapidapi-host": c.Host,
		"x-rapidapi-key":  c.apiKey,
	}
}

type Manufacturer struct {
	ManufacturerId   int    `json:"manufacturerId"`
	ManufacturerName string `json:"manufacturerName"`
}

type manufacturersResponse struct {
	CountManufactures int            `json:"countManufactures"`
	Manufacturers     []Manufacturer `json:"manufacturers"`
}

// ListManufacturers returns every manufacturer for a vehicle type.
func (c *Client) ListManufacturers(ctx context.Context, typeID int) ([]Manufacturer, error) {
	url := fmt.Sprintf("https://%s/manufacturers/list/type-id/%d", c.Host, typeID)

	var resp manufacturersResponse
	if err := c.rest.GetJSON(ctx, url, c.headers(), &resp); err != nil {
		return nil, fmt.Errorf("manufacturer list failed: %w", err)
	}
	return resp.Manufacturers, nil
}

type Model struct {
	ModelId       int     `json:"modelId"`
	ModelName     string  `json:"modelName"`
	ModelYearFrom string  `json:"modelYearFrom"`
	ModelYearTo   *string `json:"modelYearTo"`
}

type modelsResponse struct {
	CountModels int     `json:"countModels"`
	Models      []Model `json:"models"`
}

// ListModels returns the models of a manufacturer.
func (c *Client) ListModels(ctx context.Context, typeID, manufacturerID, langID, countryFilterID int) ([]Model, error) {
	url := fmt.Sprintf("https://%s/models/list/type-id/%d/manufacturer-id/%d/lang-id/%d/country-filter-id/%d",
		c.Host, typeID, manufacturerID, langID, countryFilterID)

	var resp modelsResponse
	if err := c.rest.GetJSON(ctx, url, c.headers(), &resp); err != nil {
		return nil, fmt.Errorf("model list failed: %w", err)
	}
	return resp.Models, nil
}

type ModelType struct {
	VehicleId int `json:"vehicleId"`
}

type modelTypesResponse struct {
	CountModelTypes int         `json:"countModelTypes"`
	ModelTypes      []ModelType `json:"modelTypes"`
}

// ListVehicleIDs returns the distinct vehicle ids offered under a model.
func (c *Client) ListVehicleIDs(ctx context.Context, typeID, modelID, langID, countryFilterID int) ([]int, error) {
	url := fmt.Sprintf("https://%s/types/type-id/%d/list-vehicles-id/%d/lang-id/%d/country-filter-id/%d",
		c.Host, typeID, modelID, langID, countryFilterID)

	var resp modelTypesResponse
	if err := c.rest.GetJSON(ctx, url, c.headers(), &resp); err != nil {
		return nil, fmt.Errorf("vehicle id list failed: %w", err)
	}

	seen := make(map[int]bool)
	var ids []int
	for _, mt := range resp.ModelTypes {
		if mt.VehicleId != 0 && !seen[mt.VehicleId] {
			seen[mt.VehicleId] = true
			ids = append(ids, mt.VehicleId)
		}
	}
	return ids, nil
}

type VehicleDetails struct {
	ManufacturerName          string `json:"manufacturerName"`
	ModelType                 string `json:"modelType"`
	TypeEngineName            string `json:"typeEngineName"`
	ConstructionIntervalStart string `json:"constructionIntervalStart"`
	ConstructionIntervalEnd   string `json:"constructionIntervalEnd"`
	CapacityLt                string `json:"capacityLt"`
	NumberOfCylinders         *int   `json:"numberOfCylinders"`
	EngineType                string `json:"engineType"`
	FuelType                  string `json:"fuelType"`
}

type vehicleDetailsResponse struct {
	VehicleTypeDetails VehicleDetails `json:"vehicleTypeDetails"`
}

// VehicleDetails fetches the specification sheet of a single vehicle id.
func (c *Client) VehicleDetails(ctx context.Context, typeID, vehicleID, langID, countryFilterID int) (*VehicleDetails, error) {
	url := fmt.Sprintf("https://%s/types/type-id/%d/vehicle-type-details/%d/lang-id/%d/country-filter-id/%d",
		c.Host, typeID, vehicleID, langID, countryFilterID)

	var resp vehicleDetailsResponse
	if err := c.rest.GetJSON(ctx, url, c.headers(), &resp); err != nil {
		return nil, fmt.Errorf("vehicle details failed: %w", err)
	}
	return &resp.VehicleTypeDetails, nil
}

// FetchCategoryTree returns the parts category tree of a vehicle. The raw
// payload is parsed into a CategoryTree, unwrapping the optional
// "categories" layer some endpoint variants add.
func (c *Client) FetchCategoryTree(ctx context.Context, typeID, vehicleID, langID int) (CategoryTree, error) {
	url := fmt.Sprintf("https://%s/category/type-id/%d/products-groups-variant-3/%d/lang-id/%d",
		c.Host, typeID, vehicleID, langID)

	resp, err := c.rest.Get(ctx, url, c.headers())
	if err != nil {
		return nil, fmt.Errorf("category tree failed: %w", err)
	}

	tree, err := ParseTree(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("category tree failed: %w", err)
	}
	return tree, nil
}

type Article struct {
	ArticleId          int    `json:"articleId"`
	ArticleNo          string `json:"articleNo"`
	ArticleProductName string `json:"articleProductName"`
	SupplierName       string `json:"supplierName"`
}

type articlesResponse struct {
	CountArticles int       `json:"countArticles"`
	Articles      []Article `json:"articles"`
}

// ListArticles returns the articles available under a category for a vehicle.
func (c *Client) ListArticles(ctx context.Context, typeID, vehicleID int, categoryID string, langID int) ([]Article, error) {
	url := fmt.Sprintf("https://%s/articles/list/type-id/%d/vehicle-id/%d/category-id/%s/lang-id/%d",
		c.Host, typeID, vehicleID, categoryID, langID)

	var resp articlesResponse
	if err := c.rest.GetJSON(ctx, url, c.headers(), &resp); err != nil {
		return nil, fmt.Errorf("article list failed: %w", err)
	}
	if resp.CountArticles == 0 {
		return nil, nil
	}
	return resp.Articles, nil
}

type OEMNumber struct {
	OemDisplayNo string `json:"oemDisplayNo"`
}

type ArticleDetails struct {
	OemNo   []OEMNumber `json:"oemNo"`
	S3Image string      `json:"s3image"`
}

type articleDetailsResponse struct {
	Article ArticleDetails `json:"article"`
}

// ArticleDetails fetches the complete details of one article, including OEM
// cross references and the product image when the supplier provides one.
func (c *Client) ArticleDetails(ctx context.Context, typeID, articleID, langID, countryFilterID int) (*ArticleDetails, error) {
	url := fmt.Sprintf("https://%s/articles/article-complete-details/type-id/%d/article-id/%d/lang-id/%d/country-filter-id/%d",
		c.Host, typeID, articleID, langID, countryFilterID)

	var resp articleDetailsResponse
	if err := c.rest.GetJSON(ctx, url, c.headers(), &resp); err != nil {
		return nil, fmt.Errorf("article details failed: %w", err)
	}
	return &resp.Article, nil
}
