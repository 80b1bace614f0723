package world

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SiteProfile shapes a procedurally generated dig site. All counts and
// probabilities are guidelines; the generator clamps them to sane ranges.
// Profiles are plain data and can be loaded from YAML files.
type SiteProfile struct {
	Name            string   `yaml:"name"`
	Seed            int64    `yaml:"seed"`
	MaxDepth        int      `yaml:"max_depth"`
	BranchFactor    float64  `yaml:"branch_factor"`
	FilesPerDir     float64  `yaml:"files_per_dir"`
	DebrisRatio     float64  `yaml:"debris_ratio"`
	ArtifactDensity float64  `yaml:"artifact_density"`
	BaseCorruption  float64  `yaml:"base_corruption"`
	Theme           string   `yaml:"theme"`
	DirNames        []string `yaml:"dir_names"`
	FileNames       []string `yaml:"file_names"`
	DebrisNames     []string `yaml:"debris_names"`
}

var defaultDirNames = []string{
	"invoices", "archive", "logs", "backup", "system",
	"personal", "reports", "cache", "temp", "projects",
	"assets", "config", "network", "users", "research",
}

var defaultFileNames = []string{
	"readme.txt", "memo.doc", "export.csv", "notes.txt",
	"report.pdf", "manifest.log", "index.dat", "summary.txt",
	"contacts.db", "schedule.txt", "budget.xls", "draft.doc",
}

var defaultDebrisNames = []string{
	"fragment_A", "corrupt_B", "debris_01", "shard_02",
	"remnant_C", "chunk_03", "erased_D", "lost_04",
}

// fillDefaults backfills empty name pools and zero theme so hand-written
// YAML profiles can stay short.
func (p *SiteProfile) fillDefaults() {
	if len(p.DirNames) == 0 {
		p.DirNames = append([]string(nil), defaultDirNames...)
	}
	if len(p.FileNames) == 0 {
		p.FileNames = append([]string(nil), defaultFileNames...)
	}
	if len(p.DebrisNames) == 0 {
		p.DebrisNames = append([]string(nil), defaultDebrisNames...)
	}
	if p.Theme == "" {
		p.Theme = "corporate"
	}
}

// CorporateProfile is the default first-run site.
func CorporateProfile() SiteProfile {
	p := SiteProfile{
		Name:            "Abandoned Corporate Server",
		Theme:           "corporate",
		MaxDepth:        2,
		BranchFactor:    2.0,
		FilesPerDir:     3.0,
		DebrisRatio:     0.25,
		ArtifactDensity: 0.15,
		BaseCorruption:  0.08,
	}
	p.fillDefaults()
	return p
}

// PersonalProfile is a small, heavily decayed databank.
func PersonalProfile() SiteProfile {
	p := SiteProfile{
		Name:            "Personal Databank",
		Theme:           "personal",
		MaxDepth:        2,
		BranchFactor:    1.5,
		FilesPerDir:     5.0,
		DebrisRatio:     0.4,
		ArtifactDensity: 0.3,
		BaseCorruption:  0.2,
	}
	p.fillDefaults()
	return p
}

// ResearchProfile is a deeper, better-preserved site.
func ResearchProfile() SiteProfile {
	p := SiteProfile{
		Name:            "Research Terminal",
		Theme:           "research",
		MaxDepth:        3,
		BranchFactor:    2.0,
		FilesPerDir:     6.0,
		DebrisRatio:     0.2,
		ArtifactDensity: 0.25,
		BaseCorruption:  0.05,
	}
	p.fillDefaults()
	return p
}

// LoadProfile reads a SiteProfile from a YAML file, backfilling name pools.
func LoadProfile(path string) (SiteProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SiteProfile{}, fmt.Errorf("reading site profile: %w", err)
	}
	var p SiteProfile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return SiteProfile{}, fmt.Errorf("parsing site profile %s: %w", path, err)
	}
	if p.Name == "" {
		return SiteProfile{}, fmt.Errorf("site profile %s: name is required", path)
	}
	p.fillDefaults()
	return p, nil
}
