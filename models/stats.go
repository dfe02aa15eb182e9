package models

type DashboardStats struct {
	TotalProviders       int64 `json:"totalProviders"`
	TotalAppointments    int64 `json:"totalAppointments"`
	UpcomingAppointments int64 `json:"upcomingAppointments"`
	TotalUsers           int64 `json:"totalUsers"`
}
