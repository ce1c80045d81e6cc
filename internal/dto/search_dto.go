package dto

type ImageSearchRequest struct {
	Query string `json:"query" validate:"required"`
	Limit int    `json:"limit" validate:"omitempty,min=1,max=50"`
}

type ImageResult struct {
	Title     string `json:"title"`
	Source    string `json:"source"`
	Link      string `json:"link"`
	Original  string `json:"original"`
	Thumbnail string `json:"thumbnail"`
	// ThumbnailData is the downloaded thumbnail as a base64 data URI, empty
	// when the download failed.
	ThumbnailData string `json:"thumbnail_data,omitempty"`
}

type ImageSearchResponse struct {
	Query   string        `json:"query"`
	Results []ImageResult `json:"results"`
}

type ReverseImageMatch struct {
	Position  int    `json:"position"`
	Title     string `json:"title"`
	Link      string `json:"link"`
	Source    string `json:"source"`
	Snippet   string `json:"snippet"`
	Thumbnail string `json:"thumbnail"`
	// ThumbnailData is the downloaded thumbnail as a base64 data URI, empty
	// when the download failed.
	ThumbnailData string `json:"thumbnail_data,omitempty"`
}

type ReverseImageResponse struct {
	ImageUrl string              `json:"image_url"`
	Matches  []ReverseImageMatch `json:"matches"`
}

type PhotoAnalysisMatch struct {
	PartName string `json:"part_name"`
	// IdentifiedPart is the confirmed part name, or "unknown" when the
	// search results did not back up the detection.
	IdentifiedPart string `json:"identified_part"`
}

type PhotoAnalysisResponse struct {
	Parts []PhotoAnalysisMatch `json:"parts"`
}
