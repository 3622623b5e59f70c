package models

import "time"

const ExportVersion = "1.0.0"

type ExportDocument struct {
	Prayers     []Prayer  `json:"prayers"`
	Praises     []Praise  `json:"praises"`
	Settings    *Settings `json:"settings,omitempty"`
	Export_Date time.Time `json:"exportDate"`
	Version     string    `json:"version"`
}

type ImportResult struct {
	Prayers          int  `json:"prayers"`
	Praises          int  `json:"praises"`
	Settings_Applied bool `json:"settingsApplied"`
}
