package amqp

import (
	"encoding/json"
	"time"
)

// ReportGeneratedMessage announces one finished report run. Revenue is
// the headline gross revenue as a decimal string.
type ReportGeneratedMessage struct {
	Kind       string    `json:"kind"`
	ReportDate string    `json:"report_date"`
	Revenue    string    `json:"revenue"`
	Timestamp  time.Time `json:"timestamp"`
}

func NewReportGeneratedMessage(kind, reportDate, revenue string) *ReportGeneratedMessage {
	return &ReportGeneratedMessage{
		Kind:       kind,
		ReportDate: reportDate,
		Revenue:    revenue,
		Timestamp:  time.Now(),
	}
}

func (m *ReportGeneratedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ReportGeneratedMessageFromJSON(data []byte) (*ReportGeneratedMessage, error) {
	var msg ReportGeneratedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
