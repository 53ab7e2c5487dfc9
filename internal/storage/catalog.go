package storage

type Category struct {
	ID                int64  `json:"id"`
	Name              string `json:"name"`
	MakingTimeMinutes int    `json:"making_time_minutes"`
}
