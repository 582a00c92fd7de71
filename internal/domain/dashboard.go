package domain

// DashboardStats aggregates job and email counts for the dashboard charts.
type DashboardStats struct {
	JobsByStatus  map[JobStatus]int `json:"jobs_by_status"`
	TotalEmails   int               `json:"total_emails"`
	SentEmails    int               `json:"sent_emails"`
	FailedEmails  int               `json:"failed_emails"`
	OpenedEmails  int               `json:"opened_emails"`
	ClickedEmails int               `json:"clicked_emails"`
}
