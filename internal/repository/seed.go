package repository

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/noah-isme/ack-board/internal/models"
)

// SeedFile is the YAML layout accepted by BOARD_SEED_FILE.
type SeedFile struct {
	Announcements []models.Announcement `yaml:"announcements"`
}

var legacyAcknowledgers = []string{
	"John Smith",
	"Sarah Johnson",
	"Mike Davis",
	"Emily Brown",
	"David Wilson",
	"Lisa Garcia",
	"Tom Anderson",
	"Maria Rodriguez",
}

// DefaultSeed returns the announcements the board starts with, newest first.
// Seeded acknowledgers predate the roster and are kept as recorded.
func DefaultSeed(now time.Time) []models.Announcement {
	created := now.UTC()
	return []models.Announcement{
		{
			ID:             1,
			Title:          "Safety Notice",
			Text:           "Do not be mean to sparrow or it can retaliate and attempt to hit you",
			TotalEmployees: 4,
			AcknowledgedBy: []string{},
			CreatedAt:      created,
		},
		{
			ID:             2,
			Title:          "Policy Update",
			Text:           "New remote work policy effective immediately. Please review the updated guidelines in your employee handbook.",
			TotalEmployees: 8,
			AcknowledgedBy: append([]string(nil), legacyAcknowledgers...),
			CreatedAt:      created.Add(-time.Hour),
		},
		{
			ID:             3,
			Title:          "Team Building Event",
			Text:           "Join us for our quarterly team building event next Friday at 3 PM in the main conference room.",
			TotalEmployees: 8,
			AcknowledgedBy: append([]string(nil), legacyAcknowledgers...),
			CreatedAt:      created.Add(-2 * time.Hour),
		},
	}
}

// LoadSeedFile reads announcements from a YAML file and validates them.
func LoadSeedFile(path string, now time.Time) ([]models.Announcement, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return ParseSeed(raw, now)
}

// ParseSeed decodes a YAML seed document.
func ParseSeed(raw []byte, now time.Time) ([]models.Announcement, error) {
	var file SeedFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("decode seed file: %w", err)
	}
	seen := make(map[int64]struct{}, len(file.Announcements))
	for i := range file.Announcements {
		ann := &file.Announcements[i]
		if ann.ID <= 0 {
			return nil, fmt.Errorf("seed announcement %d: id must be positive", i)
		}
		if _, dup := seen[ann.ID]; dup {
			return nil, fmt.Errorf("seed announcement %d: duplicate id", ann.ID)
		}
		seen[ann.ID] = struct{}{}
		if ann.TotalEmployees <= 0 {
			return nil, fmt.Errorf("seed announcement %d: total_employees must be positive", ann.ID)
		}
		if ann.AcknowledgedBy == nil {
			ann.AcknowledgedBy = []string{}
		}
		if err := checkUnique(ann.AcknowledgedBy); err != nil {
			return nil, fmt.Errorf("seed announcement %d: %w", ann.ID, err)
		}
		if ann.AcknowledgedCount() > ann.TotalEmployees {
			return nil, fmt.Errorf("seed announcement %d: more acknowledgments than employees", ann.ID)
		}
		if ann.CreatedAt.IsZero() {
			ann.CreatedAt = now.UTC()
		}
	}
	return file.Announcements, nil
}

func checkUnique(names []string) error {
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, dup := seen[name]; dup {
			return fmt.Errorf("duplicate acknowledgment by %q", name)
		}
		seen[name] = struct{}{}
	}
	return nil
}
