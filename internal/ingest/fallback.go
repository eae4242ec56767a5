package ingest

import (
	"github.com/moonboard/backend/internal/models"
	"github.com/moonboard/backend/internal/schema"
)

// Sample data served when the spreadsheet cannot be fetched or decoded.
// Callers get a fresh copy each time.

var fallbackReservations = []models.Reservation{
	{Name: "Ana García", Day: "18/10/2025", Time: "20:00", PartySize: 4, Notes: "Cumpleaños", Branch: "La luna", AssignedTable: "Mesa 1", Status: schema.StatusConfirmed},
	{Name: "Carlos Ruiz", Day: "18/10/2025", Time: "21:00", PartySize: 2, Notes: "", Branch: "Blue Moon", AssignedTable: "Mesa 3", Status: schema.StatusConfirmed},
	{Name: "Lucía Fernández", Day: "19/10/2025", Time: "13:30", PartySize: 6, Notes: "Sin gluten", Branch: "La luna", AssignedTable: "Mesa 2", Status: schema.StatusPending},
	{Name: "Martín López", Day: "19/10/2025", Time: "14:00", PartySize: 3, Notes: "", Branch: "Finca Moon", AssignedTable: "Mesa 5", Status: schema.StatusConfirmed},
	{Name: "Sofía Martínez", Day: "20/10/2025", Time: "20:30", PartySize: 5, Notes: "Aniversario", Branch: "La luna", AssignedTable: "Mesa 4", Status: schema.StatusCancelled},
	{Name: "Diego Torres", Day: "20/10/2025", Time: "21:30", PartySize: 2, Notes: "Alergia a frutos secos", Branch: "Blue Moon", AssignedTable: "Mesa 1", Status: schema.StatusBlocked},
}

var fallbackEngagements = []models.Engagement{
	{Date: "2025-01", Client: "Tech Corp", Service: "SEO", Status: schema.StatusCompleted, Amount: 3500, Channel: "Organic", Team: "Marketing"},
	{Date: "2025-01", Client: "StartupX", Service: "Social Media", Status: schema.StatusInProgress, Amount: 2800, Channel: "Social", Team: "Content"},
	{Date: "2025-01", Client: "EcommY", Service: "Web Design", Status: schema.StatusCompleted, Amount: 5200, Channel: "Direct", Team: "Design"},
	{Date: "2025-02", Client: "BrandZ", Service: "SEO", Status: schema.StatusCompleted, Amount: 4100, Channel: "Organic", Team: "Marketing"},
	{Date: "2025-02", Client: "LocalBiz", Service: "Digital Marketing", Status: schema.StatusInProgress, Amount: 3300, Channel: "Paid", Team: "Marketing"},
	{Date: "2025-02", Client: "GlobalInc", Service: "Social Media", Status: schema.StatusCompleted, Amount: 2900, Channel: "Social", Team: "Content"},
	{Date: "2025-03", Client: "FastGrow", Service: "Web Design", Status: schema.StatusCompleted, Amount: 6800, Channel: "Direct", Team: "Design"},
	{Date: "2025-03", Client: "TechStart", Service: "SEO", Status: schema.StatusInProgress, Amount: 3700, Channel: "Organic", Team: "Marketing"},
	{Date: "2025-03", Client: "MarketPro", Service: "Digital Marketing", Status: schema.StatusCompleted, Amount: 4500, Channel: "Paid", Team: "Marketing"},
	{Date: "2025-04", Client: "InnovateCo", Service: "Social Media", Status: schema.StatusCompleted, Amount: 3100, Channel: "Social", Team: "Content"},
}

func FallbackReservations() []models.Reservation {
	return append([]models.Reservation(nil), fallbackReservations...)
}

func FallbackEngagements() []models.Engagement {
	return append([]models.Engagement(nil), fallbackEngagements...)
}
