package models

// Currency представляет запись справочника валют.
type Currency struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"short_name"`
	Sign      string `json:"sign"`
}
