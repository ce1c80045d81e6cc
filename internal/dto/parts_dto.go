package dto

// VehicleQuery identifies the vehicle parts are looked up for. Either a
// vehicle id resolved earlier, or manufacturer/model/year to resolve one.
type VehicleQuery struct {
	VehicleId    int    `json:"vehicle_id"`
	Manufacturer string `json:"manufacturer"`
	Model        string `json:"model"`
	Year         int    `json:"year"`
	Series       string `json:"series"`
	Trim         string `json:"trim"`
	Cylinders    int    `json:"cylinders"`
	FuelType     string `json:"fuel_type"`
	Country      string `json:"country"`
}

type PartsLookupRequest struct {
	Vehicle VehicleQuery `json:"vehicle" validate:"required"`
	Parts   []string     `json:"parts" validate:"required,min=1,dive,required"`
}

type PartResult struct {
	PartDescription string   `json:"part_description"`
	Status          string   `json:"status"`
	PartName        string   `json:"part_name,omitempty"`
	CategoryId      string   `json:"category_id,omitempty"`
	CategoryName    string   `json:"category_name,omitempty"`
	Message         string   `json:"message,omitempty"`
	RetryCount      int      `json:"retry_count"`
	OemNumbers      []string `json:"oem_numbers"`
	ImageUrl        string   `json:"image_url,omitempty"`
}

type PartsLookupResponse struct {
	VehicleId int          `json:"vehicle_id"`
	Results   []PartResult `json:"results"`
}

// VehicleResolveResponse is the outcome of resolving a vehicle query to a
// concrete catalog vehicle plus its category tree.
type VehicleResolveResponse struct {
	VehicleId    int                    `json:"vehicle_id"`
	Details      map[string]interface{} `json:"details,omitempty"`
	CategoriesMd string                 `json:"categories_md"`
}
