package ranker

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/jszwec/csvutil"

	"github.com/umputun/dropscope/pkg/domain"
)

// OpportunityRow is one line of the exported file, field order is the column order
type OpportunityRow struct {
	Name              string  `csv:"name"`
	CompositeScore    float64 `csv:"composite_score"`
	SEOScore          float64 `csv:"seo_score"`
	CommercialScore   float64 `csv:"commercial_score"`
	BrandabilityScore float64 `csv:"brandability_score"`
	CompetitionScore  float64 `csv:"competition_score"`
	RiskScore         float64 `csv:"risk_score"`
	RecommendedPrice  float64 `csv:"recommended_price"`
	ResaleValue       float64 `csv:"resale_value"`
	ROIPercent        float64 `csv:"roi_percent"`
	Recommendation    string  `csv:"recommendation"`
	Source            string  `csv:"source"`
	Tier              string  `csv:"tier"`
}

// WriteCSV writes the opportunities in rank order. An empty list still gets the header line.
func WriteCSV(w io.Writer, opps []domain.RankedOpportunity) error {
	cw := csv.NewWriter(w)
	enc := csvutil.NewEncoder(cw)
	// plain decimal notation, default 'G' formatting switches to exponents for large prices
	enc.Register(func(f float64) ([]byte, error) {
		return strconv.AppendFloat(nil, f, 'f', -1, 64), nil
	})

	if len(opps) == 0 {
		if err := enc.EncodeHeader(OpportunityRow{}); err != nil {
			return fmt.Errorf("encode header: %w", err)
		}
	}
	for _, o := range opps {
		row := OpportunityRow{
			Name:              o.Name,
			CompositeScore:    o.CompositeScore,
			SEOScore:          o.SubScores.SEO,
			CommercialScore:   o.SubScores.Commercial,
			BrandabilityScore: o.SubScores.Brandability,
			CompetitionScore:  o.SubScores.Competition,
			RiskScore:         o.SubScores.Risk,
			RecommendedPrice:  o.RecommendedPrice,
			ResaleValue:       o.ResaleValue,
			ROIPercent:        o.ROIPercent,
			Recommendation:    string(o.Recommendation),
			Source:            o.Source,
			Tier:              string(o.Tier),
		}
		if err := enc.Encode(row); err != nil {
			return fmt.Errorf("encode %s: %w", o.Name, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
