package vin

import (
	"context"
	"fmt"

	"ai-autoparts-be/pkg/restcache"
)

// Decoder resolves a VIN to the vehicle it identifies via the decoder API.
type Decoder struct {
	Host   string
	apiKey string
	rest   *restcache.Client
}

func NewDecoder(host, apiKey string, rest *restcache.Client) *Decoder {
	return &Decoder{
		Host:   host,
		apiKey: apiKey,
		rest:   rest,
	}
}

type DecodedVehicle struct {
	Manufacturer string   `json:"manuName"`
	Model        string   `json:"modelName"`
	TypeName     string   `json:"typeName"`
	YearFrom     string   `json:"yearFrom"`
	YearTo       string   `json:"yearTo"`
	CarIds       []int    `json:"carIds"`
	EngineCodes  []string `json:"engineCodes"`
}

type decodeResponse struct {
	Data struct {
		MatchingVehicles struct {
			Array []DecodedVehicle `json:"array"`
		} `json:"matchingVehicles"`
	} `json:"data"`
}

// Decode looks up the vehicles matching a VIN. The API can return several
// candidates when the VIN does not pin down a single trim.
func (d *Decoder) Decode(ctx context.Context, vin string) ([]DecodedVehicle, error) {
	normalized, err := Validate(vin)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("https://%s/vin/decoder-v2/%s", d.Host, normalized)
	headers := map[string]string{
		"x-rapidapi-host": d.Host,
		"x-rapidapi-key":  d.apiKey,
	}

	var resp decodeResponse
	if err := d.rest.GetJSON(ctx, url, headers, &resp); err != nil {
		return nil, fmt.Errorf("vin decode failed: %w", err)
	}
	return resp.Data.MatchingVehicles.Array, nil
}
