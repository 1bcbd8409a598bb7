package model

import "time"

// OrderKind — тип приказа юниту.
type OrderKind int32

const (
	OrderMove OrderKind = iota
	OrderAttack
	OrderCast
	OrderToggle
	OrderStop
)

// String returns human-readable order kind
func (k OrderKind) String() string {
	switch k {
	case OrderMove:
		return "MOVE"
	case OrderAttack:
		return "ATTACK"
	case OrderCast:
		return "CAST"
	case OrderToggle:
		return "TOGGLE"
	case OrderStop:
		return "STOP"
	default:
		return "UNKNOWN"
	}
}

// Order — приказ, проходящий через перехватчики перед отправкой хосту.
type Order struct {
	Kind     OrderKind
	IssuerID uint32
	Ability  string
	TargetID uint32
	Position Location
	IssuedAt time.Time
}
