// Package testdata holds recorded hand landmark fixtures shared by tests.
package testdata

import (
	"embed"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/ayusman/neonlink/internal/detector"
)

//go:embed hands/*.json
var handsFS embed.FS

// LoadHand loads a landmark fixture by name, with or without the .json suffix.
func LoadHand(name string) (detector.HandLandmarks, error) {
	if !strings.HasSuffix(name, ".json") {
		name += ".json"
	}

	data, err := handsFS.ReadFile(path.Join("hands", name))
	if err != nil {
		return detector.HandLandmarks{}, fmt.Errorf("load hand %s: %w", name, err)
	}

	var raw struct {
		Points     []detector.Point3D `json:"points"`
		Handedness string             `json:"handedness"`
		Score      float64            `json:"score"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return detector.HandLandmarks{}, fmt.Errorf("decode hand %s: %w", name, err)
	}
	if len(raw.Points) != detector.NumLandmarks {
		return detector.HandLandmarks{}, fmt.Errorf("hand %s has %d points, want %d", name, len(raw.Points), detector.NumLandmarks)
	}

	hand := detector.HandLandmarks{
		Handedness: raw.Handedness,
		Score:      raw.Score,
	}
	copy(hand.Points[:], raw.Points)
	return hand, nil
}

// HandNames lists the available landmark fixtures without their suffix.
func HandNames() ([]string, error) {
	entries, err := handsFS.ReadDir("hands")
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".json"))
	}
	return names, nil
}
