package models

import (
	"fmt"
	"strings"
)

// Unit is a measurement unit of a recipe ingredient. Values match the
// unit_enum PostgreSQL type.
type Unit string

const (
	UnitPinch Unit = "pinch"
	UnitKg    Unit = "kg"
	UnitGram  Unit = "gram"
	UnitPiece Unit = "piece"
	UnitMl    Unit = "ml"
	UnitLiter Unit = "liter"
	UnitCup   Unit = "cup"
)

// Units lists every valid unit in declaration order.
var Units = []Unit{UnitPinch, UnitKg, UnitGram, UnitPiece, UnitMl, UnitLiter, UnitCup}

func (u Unit) Valid() bool {
	for _, v := range Units {
		if u == v {
			return true
		}
	}
	return false
}

// ParseUnit trims s and checks it against the enumeration. Matching is
// case-sensitive.
func ParseUnit(s string) (Unit, error) {
	u := Unit(strings.TrimSpace(s))
	if !u.Valid() {
		return "", fmt.Errorf("unknown unit %q", s)
	}
	return u, nil
}
