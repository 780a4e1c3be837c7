// Package gazetteer resolves free-text street addresses ("Calle de Alberto
// Aguilera, 23") to geographic coordinates using the municipal street
// directory CSV. Lookups are exact or fuzzy; fuzzy matching tolerates typos
// by Levenshtein similarity.
package gazetteer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/language"
)

// DefaultMinSimilarity is the fuzzy-lookup acceptance threshold.
const DefaultMinSimilarity = 0.8

var (
	ErrAddressNotFound = errors.New("address not found in the street directory")
	ErrMissingColumn   = errors.New("street directory csv is missing a required column")
)

// Entry is one address of the directory with its location in decimal
// degrees.
type Entry struct {
	Address string
	Lat     float64
	Lon     float64
}

// Gazetteer is the in-memory street directory.
type Gazetteer struct {
	entries   []Entry
	byAddress map[string]int // first occurrence wins
}

var requiredColumns = []string{"VIA_CLASE", "VIA_PAR", "VIA_NOMBRE", "NUMERO", "LATITUD", "LONGITUD"}

// LoadFromCSV reads the semicolon-separated, Latin-1 encoded street
// directory file.
func LoadFromCSV(path string) (*Gazetteer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open street directory: %w", err)
	}
	defer f.Close()

	return Load(charmap.ISO8859_1.NewDecoder().Reader(f))
}

// Load parses the street directory from an already decoded reader.
func Load(r io.Reader) (*Gazetteer, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read street directory header: %w", err)
	}
	colIdx := make(map[string]int, len(requiredColumns))
	for i, name := range header {
		colIdx[strings.TrimSpace(name)] = i
	}
	for _, name := range requiredColumns {
		if _, ok := colIdx[name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
	}

	gz := &Gazetteer{byAddress: make(map[string]int)}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read street directory row: %w", err)
		}

		lat, err := ParseDMSCoordinate(record[colIdx["LATITUD"]])
		if err != nil {
			return nil, fmt.Errorf("row %d latitude: %w", len(gz.entries)+1, err)
		}
		lon, err := ParseDMSCoordinate(record[colIdx["LONGITUD"]])
		if err != nil {
			return nil, fmt.Errorf("row %d longitude: %w", len(gz.entries)+1, err)
		}

		address := BuildAddress(
			record[colIdx["VIA_CLASE"]],
			record[colIdx["VIA_PAR"]],
			record[colIdx["VIA_NOMBRE"]],
			record[colIdx["NUMERO"]],
		)
		if _, ok := gz.byAddress[address]; !ok {
			gz.byAddress[address] = len(gz.entries)
		}
		gz.entries = append(gz.entries, Entry{Address: address, Lat: lat, Lon: lon})
	}
	return gz, nil
}

// ParseDMSCoordinate converts a degrees-minutes-seconds coordinate such as
// `40°25'59.93'' N` to decimal degrees. South and west are negative.
func ParseDMSCoordinate(raw string) (float64, error) {
	cleaned := strings.NewReplacer("''", "", "°", " ", "'", " ").Replace(raw)
	parts := strings.Fields(cleaned)
	if len(parts) != 4 {
		return 0, fmt.Errorf("malformed dms coordinate %q", raw)
	}
	degrees, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("malformed dms degrees %q", raw)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("malformed dms minutes %q", raw)
	}
	seconds, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return 0, fmt.Errorf("malformed dms seconds %q", raw)
	}

	value := float64(degrees) + float64(minutes)/60.0 + seconds/3600.0
	switch parts[3] {
	case "S", "W":
		return -value, nil
	case "N", "E":
		return value, nil
	default:
		return 0, fmt.Errorf("unknown dms orientation %q", raw)
	}
}

var titleCaser = cases.Title(language.Spanish)

// BuildAddress assembles the display form "Calle de Alberto Aguilera, 23"
// from the raw directory columns. The particle column (VIA_PAR) may be
// empty.
func BuildAddress(viaClase, viaPar, viaNombre, numero string) string {
	street := []string{titleCaser.String(strings.TrimSpace(viaClase))}
	if particle := strings.TrimSpace(viaPar); particle != "" {
		street = append(street, strings.ToLower(particle))
	}
	street = append(street, titleCaser.String(strings.TrimSpace(viaNombre)))
	return fmt.Sprintf("%s, %s", strings.Join(street, " "), strings.TrimSpace(numero))
}

// Find looks up an address exactly.
func (g *Gazetteer) Find(address string) (Entry, error) {
	idx, ok := g.byAddress[strings.TrimSpace(address)]
	if !ok {
		return Entry{}, fmt.Errorf("%q: %w", address, ErrAddressNotFound)
	}
	return g.entries[idx], nil
}

// FindFuzzy returns the entry whose address is most similar to the query,
// as long as the similarity reaches minSimilarity (0..1). Similarity is
// 1 - levenshtein/maxLen over the rune lengths.
func (g *Gazetteer) FindFuzzy(address string, minSimilarity float64) (Entry, error) {
	query := strings.TrimSpace(address)
	bestScore := -1.0
	bestIdx := -1
	for i, entry := range g.entries {
		score := similarity(query, entry.Address)
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}
	if bestIdx < 0 || bestScore < minSimilarity {
		return Entry{}, fmt.Errorf("nothing similar to %q: %w", address, ErrAddressNotFound)
	}
	return g.entries[bestIdx], nil
}

func (g *Gazetteer) Len() int {
	return len(g.entries)
}

func similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}
	if maxLen == 0 {
		return 1.0
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1.0 - float64(dist)/float64(maxLen)
}
