package recurrence

import "github.com/agbru/divseq/pkg/models"

// Record converts the analysis into its JSON model. At most prefixLen
// leading terms are carried.
//
// Parameters:
//   - prefixLen: The number of leading terms to include.
//
// Returns:
//   - models.SequenceRecord: The JSON rendering of the analysis.
func (a Analysis) Record(prefixLen int) models.SequenceRecord {
	return models.SequenceRecord{
		P:                          a.Params.P.String(),
		Q:                          a.Params.Q.String(),
		X0:                         a.Params.X0.String(),
		X1:                         a.Params.X1.String(),
		MaxIndex:                   a.Sequence.MaxIndex(),
		Discriminant:               a.Discriminant.String(),
		Divisibility:               a.Divisibility.Satisfied,
		StrongDivisibility:         a.Strong.Satisfied,
		DivisibilityCounterexample: a.Divisibility.Counterexample.Record(),
		StrongCounterexample:       a.Strong.Counterexample.Record(),
		FirstTerms:                 a.Sequence.Prefix(prefixLen).Strings(),
	}
}

// Record converts the pair into its JSON model. A nil receiver maps to a
// nil record, matching the omitempty rendering of satisfied checks.
func (p *IndexPair) Record() *models.PairRecord {
	if p == nil {
		return nil
	}
	return &models.PairRecord{M: p.M, N: p.N}
}
