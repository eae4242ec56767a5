package metrics

import (
	"maps"

	"github.com/moonboard/backend/internal/models"
	"github.com/moonboard/backend/internal/schema"
)

type EngagementMetrics struct {
	TotalRevenue        float64            `json:"total_revenue"`
	UniqueClients       int                `json:"unique_clients"`
	CompletedCount      int                `json:"completed_count"`
	CompletionRate      float64            `json:"completion_rate"`
	ServiceRevenue      map[string]float64 `json:"service_revenue"`
	MonthlyTimeline     map[string]float64 `json:"monthly_timeline"`
	ChannelDistribution map[string]int     `json:"channel_distribution"`
}

func Engagements(records []models.Engagement) EngagementMetrics {
	m := EngagementMetrics{
		ServiceRevenue:      map[string]float64{},
		MonthlyTimeline:     map[string]float64{},
		ChannelDistribution: map[string]int{},
	}

	clients := map[string]struct{}{}
	for _, e := range records {
		m.TotalRevenue += e.Amount
		clients[e.Client] = struct{}{}
		if e.Status == schema.StatusCompleted {
			m.CompletedCount++
		}
		m.ServiceRevenue[e.Service] += e.Amount
		m.MonthlyTimeline[e.Date] += e.Amount
		if e.Channel != "" {
			m.ChannelDistribution[e.Channel]++
		}
	}

	m.UniqueClients = len(clients)
	m.CompletionRate = percent(m.CompletedCount, len(records))
	return m
}

func percent(part, whole int) float64 {
	return ratio(part, whole) * 100
}

func ratio(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	return float64(part) / float64(whole)
}

func (m EngagementMetrics) Clone() EngagementMetrics {
	out := m
	out.ServiceRevenue = maps.Clone(m.ServiceRevenue)
	out.MonthlyTimeline = maps.Clone(m.MonthlyTimeline)
	out.ChannelDistribution = maps.Clone(m.ChannelDistribution)
	return out
}
