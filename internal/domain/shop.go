package domain

import "time"

type Operator struct {
	ID        string
	Name      string
	Active    bool
	CreatedAt time.Time
}

type Machine struct {
	ID        string
	Name      string
	Kind      string // e.g. offset, digital, guillotine, folder
	CreatedAt time.Time
}
