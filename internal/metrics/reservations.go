package metrics

import (
	"maps"
	"slices"
	"sort"

	"github.com/moonboard/backend/internal/models"
	"github.com/moonboard/backend/internal/schema"
)

const (
	TablesPerBranch = 6
	LatestLimit     = 5
)

// KnownBranches are the restaurants shown on the table map.
var KnownBranches = []string{"La luna", "Blue Moon", "Finca Moon"}

type DayTotals struct {
	Reservations int     `json:"reservation_count"`
	People       float64 `json:"people_count"`
}

type TableState struct {
	Occupied int `json:"occupied"`
	Free     int `json:"free"`
}

type ReservationMetrics struct {
	OccupancyRate      float64               `json:"occupancy_rate"`
	TotalReservations  int                   `json:"total_reservations"`
	TotalPeople        float64               `json:"total_people"`
	DailyAverage       float64               `json:"daily_average"`
	BranchDistribution map[string]int        `json:"branch_distribution"`
	DailyTimeline      map[string]DayTotals  `json:"daily_timeline"`
	TableStateByBranch map[string]TableState `json:"table_state_by_branch"`
	LatestRecords      []models.Reservation  `json:"latest_records"`
}

// TableStateFor returns the table state for branch, treating branches
// without an entry as fully free.
func (m ReservationMetrics) TableStateFor(branch string) TableState {
	if st, ok := m.TableStateByBranch[branch]; ok {
		return st
	}
	return TableState{Occupied: 0, Free: TablesPerBranch}
}

func Reservations(records []models.Reservation) ReservationMetrics {
	m := ReservationMetrics{
		TotalReservations:  len(records),
		BranchDistribution: map[string]int{},
		DailyTimeline:      map[string]DayTotals{},
		TableStateByBranch: map[string]TableState{},
	}

	confirmed := 0
	tables := map[string]map[string]struct{}{}
	for _, r := range records {
		m.TotalPeople += r.PartySize

		if r.Branch != "" {
			m.BranchDistribution[r.Branch]++
		}

		day := m.DailyTimeline[r.Day]
		day.Reservations++
		day.People += r.PartySize
		m.DailyTimeline[r.Day] = day

		if r.Status == schema.StatusConfirmed {
			confirmed++
			if tables[r.Branch] == nil {
				tables[r.Branch] = map[string]struct{}{}
			}
			tables[r.Branch][r.AssignedTable] = struct{}{}
		}
	}

	m.OccupancyRate = percent(confirmed, len(KnownBranches)*TablesPerBranch)
	m.DailyAverage = ratio(len(records), len(m.DailyTimeline))

	for _, branch := range KnownBranches {
		occupied := len(tables[branch])
		m.TableStateByBranch[branch] = TableState{
			Occupied: occupied,
			Free:     TablesPerBranch - occupied,
		}
	}

	m.LatestRecords = latest(records, LatestLimit)
	return m
}

// latest orders by day descending using plain string comparison, which is
// only chronological when every day shares one fixed-width layout.
func latest(records []models.Reservation, n int) []models.Reservation {
	sorted := append([]models.Reservation(nil), records...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Day > sorted[j].Day
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	if sorted == nil {
		sorted = []models.Reservation{}
	}
	return sorted
}

// Clone returns a deep copy, so callers cannot reach the maps and slices
// of a published snapshot.
func (m ReservationMetrics) Clone() ReservationMetrics {
	out := m
	out.BranchDistribution = maps.Clone(m.BranchDistribution)
	out.DailyTimeline = maps.Clone(m.DailyTimeline)
	out.TableStateByBranch = maps.Clone(m.TableStateByBranch)
	out.LatestRecords = slices.Clone(m.LatestRecords)
	return out
}
