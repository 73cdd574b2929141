// Package analytics holds the demographic, population and economic figures
// shown next to a narrative, and the closed-form estimate used when the
// model does not return usable data.
package analytics

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/sozercan/palestine-timeline/internal/interpret"
)

// Sector names in display order.
var Sectors = []string{"Agriculture", "Manufacturing", "Services", "Government", "Other"}

// Decimal is a percentage or rate kept in its display form ("2.4"). It
// accepts either a JSON string or a JSON number.
type Decimal string

func (d *Decimal) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*d = Decimal(s)
		return nil
	}
	var f json.Number
	if err := json.Unmarshal(b, &f); err != nil {
		return fmt.Errorf("decimal: %w", err)
	}
	*d = Decimal(f.String())
	return nil
}

// Float parses the decimal; ok is false when it is not a number.
func (d Decimal) Float() (float64, bool) {
	f, err := strconv.ParseFloat(string(d), 64)
	return f, err == nil
}

type Population struct {
	Total     int     `json:"total"`
	Growth    Decimal `json:"growth"`
	UrbanRate Decimal `json:"urbanRate"`
}

type Economy struct {
	GDPGrowth    Decimal `json:"gdpGrowth"`
	Inflation    Decimal `json:"inflation"`
	Unemployment Decimal `json:"unemployment"`
}

// Snapshot is one set of figures for a (year, city). Percentages are meant
// to sum to 100 but nothing enforces it; see Check.
type Snapshot struct {
	DemographicData map[string]float64 `json:"demographicData"`
	PopulationData  Population         `json:"populationData"`
	EconomicData    Economy            `json:"economicData"`
}

// UnmarshalJSON accepts any JSON object. Numbers may arrive as JSON
// numbers or numeric strings ("30", "30%"); a fractional total is
// truncated. A field that cannot be read keeps its zero value for Check to
// report, so a payload is never rejected for its field types.
func (s *Snapshot) UnmarshalJSON(b []byte) error {
	if !gjson.ValidBytes(b) {
		return errors.New("snapshot: invalid json")
	}
	root := gjson.ParseBytes(b)
	if !root.IsObject() {
		return fmt.Errorf("snapshot: want an object, got %s", root.Type)
	}

	*s = Snapshot{}
	if demo := root.Get("demographicData"); demo.IsObject() {
		s.DemographicData = make(map[string]float64)
		demo.ForEach(func(k, v gjson.Result) bool {
			f, _ := number(v)
			s.DemographicData[k.String()] = f
			return true
		})
	}

	pop := root.Get("populationData")
	total, _ := number(pop.Get("total"))
	s.PopulationData = Population{
		Total:     int(math.Trunc(total)),
		Growth:    decimal(pop.Get("growth")),
		UrbanRate: decimal(pop.Get("urbanRate")),
	}

	econ := root.Get("economicData")
	s.EconomicData = Economy{
		GDPGrowth:    decimal(econ.Get("gdpGrowth")),
		Inflation:    decimal(econ.Get("inflation")),
		Unemployment: decimal(econ.Get("unemployment")),
	}
	return nil
}

func number(r gjson.Result) (float64, bool) {
	switch r.Type {
	case gjson.Number:
		return r.Num, true
	case gjson.String:
		v := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(r.Str), "%"))
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func decimal(r gjson.Result) Decimal {
	switch r.Type {
	case gjson.String:
		return Decimal(r.Str)
	case gjson.Number:
		return Decimal(r.Raw)
	default:
		return ""
	}
}

// SectorNames returns the demographic keys of s, known sectors first in
// display order, then any others sorted.
func (s Snapshot) SectorNames() []string {
	names := make([]string, 0, len(s.DemographicData))
	for _, name := range Sectors {
		if _, ok := s.DemographicData[name]; ok {
			names = append(names, name)
		}
	}
	var extra []string
	for name := range s.DemographicData {
		if !slices.Contains(Sectors, name) {
			extra = append(extra, name)
		}
	}
	slices.Sort(extra)
	return append(names, extra...)
}

// Formula computes a snapshot from (year - 1900) alone. It is pure: the
// same arguments always give the same result. The city is accepted so the
// estimate is keyed the same way as a model answer, but does not change the
// figures.
func Formula(year int, _ string) Snapshot {
	d := float64(year - 1900)
	y := float64(year)

	return Snapshot{
		DemographicData: map[string]float64{
			"Agriculture":   round1(45 - math.Max(0, d/10)),
			"Manufacturing": round1(10 + math.Min(25, d/8)),
			"Services":      round1(15 + math.Min(40, d/5)),
			"Government":    round1(10 + math.Min(15, d/20)),
			"Other":         round1(20 - math.Min(15, d/15)),
		},
		PopulationData: Population{
			Total:     int(math.Round(50000 + d*1000*(1+math.Sin(y/30)*0.2))),
			Growth:    fixed1(2 + math.Sin(y/20)*1.5),
			UrbanRate: fixed1(math.Min(95, 30+d/3)),
		},
		EconomicData: Economy{
			GDPGrowth:    fixed1(3 + math.Sin(y/15)*2),
			Inflation:    fixed1(math.Max(1, 5+math.Sin(y/10)*4)),
			Unemployment: fixed1(math.Max(4, 10+math.Sin(y/25)*6)),
		},
	}
}

// Interpret turns a model completion into a snapshot, falling back to
// Formula when no JSON can be recovered. It never fails.
func Interpret(text string, year int, city string) interpret.Result[Snapshot] {
	return interpret.DecodeOr(text, func() Snapshot {
		return Formula(year, city)
	})
}

// Check lists the ways s breaks the intended invariants. It reports and
// does not correct.
func Check(s Snapshot) []string {
	var problems []string

	if len(s.DemographicData) == 0 {
		problems = append(problems, "demographic data is empty")
	} else {
		var sum float64
		for _, name := range s.SectorNames() {
			v := s.DemographicData[name]
			if v < 0 {
				problems = append(problems, fmt.Sprintf("sector %s is negative (%.1f)", name, v))
			}
			sum += v
		}
		if math.Abs(sum-100) > 0.5 {
			problems = append(problems, fmt.Sprintf("demographic percentages sum to %.1f, want 100", sum))
		}
	}

	if s.PopulationData.Total <= 0 {
		problems = append(problems, fmt.Sprintf("population total %d is not positive", s.PopulationData.Total))
	}
	if v, ok := s.PopulationData.UrbanRate.Float(); !ok {
		problems = append(problems, fmt.Sprintf("urban rate %q is not a number", s.PopulationData.UrbanRate))
	} else if v < 0 || v > 95 {
		problems = append(problems, fmt.Sprintf("urban rate %.1f is outside 0-95", v))
	}

	for name, d := range map[string]Decimal{
		"growth":       s.PopulationData.Growth,
		"gdpGrowth":    s.EconomicData.GDPGrowth,
		"inflation":    s.EconomicData.Inflation,
		"unemployment": s.EconomicData.Unemployment,
	} {
		if _, ok := d.Float(); !ok {
			problems = append(problems, fmt.Sprintf("%s %q is not a number", name, d))
		}
	}

	slices.Sort(problems)
	return problems
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}

func fixed1(f float64) Decimal {
	return Decimal(strconv.FormatFloat(f, 'f', 1, 64))
}
