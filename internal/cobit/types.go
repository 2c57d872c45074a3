// Package cobit holds the COBIT 5 process and control catalogue.
package cobit

import "strings"

// Domain is one of the five top-level COBIT process groupings.
type Domain string

const (
	DomainEDM Domain = "EDM"
	DomainAPO Domain = "APO"
	DomainBAI Domain = "BAI"
	DomainDSS Domain = "DSS"
	DomainMEA Domain = "MEA"
)

// Domains lists the domains in framework order.
var Domains = []Domain{DomainEDM, DomainAPO, DomainBAI, DomainDSS, DomainMEA}

// Valid reports whether d is a known domain.
func (d Domain) Valid() bool {
	for _, known := range Domains {
		if d == known {
			return true
		}
	}
	return false
}

// DomainFromCode derives the domain from a process or control code such as
// "APO01" or "DSS05.02". It returns "" when the prefix is not a domain.
func DomainFromCode(code string) Domain {
	if len(code) < 3 {
		return ""
	}
	d := Domain(strings.ToUpper(code[:3]))
	if !d.Valid() {
		return ""
	}
	return d
}

// Process is a COBIT process (e.g. APO12 Manage Risk).
type Process struct {
	ID     string `json:"id"`
	Code   string `json:"code"`
	Name   string `json:"name"`
	Domain Domain `json:"domain"`
}

// Control is a single requirement statement grouped under a process.
type Control struct {
	ID        string   `json:"id"`
	Code      string   `json:"code"`
	Statement string   `json:"statement"`
	ProcessID string   `json:"process_id,omitempty"`
	Process   *Process `json:"process,omitempty"`
}
