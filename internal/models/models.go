package models

import (
	"strconv"
	"time"

	"github.com/moonboard/backend/internal/schema"
)

type Reservation struct {
	Name          string  `json:"name"`
	Day           string  `json:"day"`
	Time          string  `json:"time"`
	PartySize     float64 `json:"party_size" validate:"gte=0"`
	Notes         string  `json:"notes"`
	Branch        string  `json:"branch"`
	AssignedTable string  `json:"assigned_table"`
	Status        string  `json:"status"`
}

func NewReservation(v schema.Values) Reservation {
	return Reservation{
		Name:          v.Get("name"),
		Day:           v.Get("day"),
		Time:          v.Get("time"),
		PartySize:     v.Num("party_size"),
		Notes:         v.Get("notes"),
		Branch:        v.Get("branch"),
		AssignedTable: v.Get("assigned_table"),
		Status:        v.Get("status"),
	}
}

func (r Reservation) Value(field string) string {
	switch field {
	case "name":
		return r.Name
	case "day":
		return r.Day
	case "time":
		return r.Time
	case "party_size":
		return strconv.FormatFloat(r.PartySize, 'f', -1, 64)
	case "notes":
		return r.Notes
	case "branch":
		return r.Branch
	case "assigned_table":
		return r.AssignedTable
	case "status":
		return r.Status
	default:
		return ""
	}
}

type Engagement struct {
	Date    string  `json:"date"`
	Client  string  `json:"client"`
	Service string  `json:"service"`
	Status  string  `json:"status"`
	Amount  float64 `json:"amount" validate:"gte=0"`
	Channel string  `json:"channel"`
	Team    string  `json:"team"`
}

func NewEngagement(v schema.Values) Engagement {
	return Engagement{
		Date:    v.Get("date"),
		Client:  v.Get("client"),
		Service: v.Get("service"),
		Status:  v.Get("status"),
		Amount:  v.Num("amount"),
		Channel: v.Get("channel"),
		Team:    v.Get("team"),
	}
}

func (e Engagement) Value(field string) string {
	switch field {
	case "date":
		return e.Date
	case "client":
		return e.Client
	case "service":
		return e.Service
	case "status":
		return e.Status
	case "amount":
		return strconv.FormatFloat(e.Amount, 'f', -1, 64)
	case "channel":
		return e.Channel
	case "team":
		return e.Team
	default:
		return ""
	}
}

const (
	SourceLive     = "live"
	SourceFallback = "fallback"
)

// Run summarizes one ingestion cycle.
type Run struct {
	ID         string    `json:"id"`
	Kind       string    `json:"kind"`
	Source     string    `json:"source"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	ElapsedMs  int64     `json:"elapsed_ms"`
	Decoded    int       `json:"decoded"`
	Accepted   int       `json:"accepted"`
	Rejected   int       `json:"rejected"`
	Checksum   string    `json:"checksum,omitempty"`
	Error      string    `json:"error,omitempty"`
}
