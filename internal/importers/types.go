// Package importers loads the COBIT catalogue and the user directory from a
// YAML seed file.
package importers

// Catalogue is the document accepted by Import.
type Catalogue struct {
	Users     []UserEntry    `yaml:"users"`
	Processes []ProcessEntry `yaml:"processes"`
}

type UserEntry struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
	Role  string `yaml:"role"`
}

// ProcessEntry is a process and the controls grouped under it.
type ProcessEntry struct {
	Code     string         `yaml:"code"`
	Name     string         `yaml:"name"`
	Controls []ControlEntry `yaml:"controls"`
}

type ControlEntry struct {
	Code      string `yaml:"code"`
	Statement string `yaml:"statement"`
}

// Summary counts what an import created. Entries already present are skipped.
type Summary struct {
	Users     int `json:"users"`
	Processes int `json:"processes"`
	Controls  int `json:"controls"`
	Skipped   int `json:"skipped"`
}
