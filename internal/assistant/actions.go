// Package assistant connects GripBot, the Gemini-backed chat and voice
// assistant, to the inventory. The model can only act through a fixed set
// of actions, each parsed into a typed value before anything runs.
package assistant

import (
	"errors"
	"fmt"
	"strings"
)

// Action names the model may call.
const (
	NameCheckOutGear        = "checkOutGear"
	NameCheckInGear         = "checkInGear"
	NameReportDamage        = "reportDamage"
	NameGetInventorySummary = "getInventorySummary"
)

var (
	// ErrUnknownAction is returned for a name outside the action vocabulary.
	ErrUnknownAction = errors.New("unknown assistant action")
	// ErrMissingArgument is returned when a required argument is absent or blank.
	ErrMissingArgument = errors.New("missing required argument")
)

// Action is one of CheckOutGear, CheckInGear, ReportDamage or
// GetInventorySummary.
type Action interface {
	Name() string
}

// CheckOutGear assigns gear to a crew member.
type CheckOutGear struct {
	SerialNumber string
	UserName     string
	Project      string
}

// CheckInGear returns gear to base.
type CheckInGear struct {
	SerialNumber string
	Notes        string
}

// ReportDamage flags gear as damaged.
type ReportDamage struct {
	SerialNumber string
	Description  string
}

// GetInventorySummary asks for counts, optionally narrowed.
type GetInventorySummary struct {
	Category string
	Project  string
}

func (CheckOutGear) Name() string        { return NameCheckOutGear }
func (CheckInGear) Name() string         { return NameCheckInGear }
func (ReportDamage) Name() string        { return NameReportDamage }
func (GetInventorySummary) Name() string { return NameGetInventorySummary }

// ParseAction turns a function call from the model into a typed action.
func ParseAction(name string, args map[string]any) (Action, error) {
	a := argBag(args)

	switch name {
	case NameCheckOutGear:
		serial, err := a.required("serialNumber")
		if err != nil {
			return nil, err
		}
		user, err := a.required("userName")
		if err != nil {
			return nil, err
		}
		return CheckOutGear{SerialNumber: serial, UserName: user, Project: a.optional("project")}, nil

	case NameCheckInGear:
		serial, err := a.required("serialNumber")
		if err != nil {
			return nil, err
		}
		return CheckInGear{SerialNumber: serial, Notes: a.optional("notes")}, nil

	case NameReportDamage:
		serial, err := a.required("serialNumber")
		if err != nil {
			return nil, err
		}
		desc, err := a.required("description")
		if err != nil {
			return nil, err
		}
		return ReportDamage{SerialNumber: serial, Description: desc}, nil

	case NameGetInventorySummary:
		return GetInventorySummary{Category: a.optional("category"), Project: a.optional("project")}, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownAction, name)
}

type argBag map[string]any

func (a argBag) optional(key string) string {
	v, ok := a[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

func (a argBag) required(key string) (string, error) {
	if v := a.optional(key); v != "" {
		return v, nil
	}
	return "", fmt.Errorf("%w: %s", ErrMissingArgument, key)
}
