package dto

type VinLookupRequest struct {
	Vin string `json:"vin" validate:"required,len=17"`
}

type DecodedVehicle struct {
	Manufacturer string   `json:"manufacturer"`
	Model        string   `json:"model"`
	TypeName     string   `json:"type_name"`
	YearFrom     string   `json:"year_from"`
	YearTo       string   `json:"year_to"`
	CarIds       []int    `json:"car_ids"`
	EngineCodes  []string `json:"engine_codes"`
}

type VinLookupResponse struct {
	Vin      string           `json:"vin"`
	Vehicles []DecodedVehicle `json:"vehicles"`
}

// VinFromImageResponse is returned when the VIN was read off a photo. The
// extracted text is included so callers can show what the OCR saw when no
// valid VIN was found.
type VinFromImageResponse struct {
	Vin      string           `json:"vin"`
	OcrText  string           `json:"ocr_text,omitempty"`
	Vehicles []DecodedVehicle `json:"vehicles"`
}
