package models

// JwstImage - изображение JWST; не персистится, всегда запрашивается
// вживую. Details - свободный payload, upstream отдает его то строкой,
// то объектом
type JwstImage struct {
	ID            string      `json:"id"`
	ObservationID string      `json:"observation_id"`
	Program       string      `json:"program"`
	Details       interface{} `json:"details"`
	FileType      string      `json:"file_type"`
	Thumbnail     string      `json:"thumbnail"`
	Location      string      `json:"location"`
}
