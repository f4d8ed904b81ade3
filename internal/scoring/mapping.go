package scoring

import (
	"encoding/json"
	"fmt"

	"github.com/archis17/AI-KYC/pkg/query"
	"github.com/archis17/AI-KYC/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "risk_scores", "s").
	Project("id", "ID").
	Project("case_id", "CaseID").
	Project("score", "Score").
	Project("decision", "Decision").
	Project("reasoning", "Reasoning").
	Project("risk_factors", "Factors").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

func scanScore(s repository.Scanner) (RiskScore, error) {
	var (
		rs      RiskScore
		factors []byte
	)

	err := s.Scan(
		&rs.ID,
		&rs.CaseID,
		&rs.Score,
		&rs.Decision,
		&rs.Reasoning,
		&factors,
		&rs.CreatedAt,
		&rs.UpdatedAt,
	)
	if err != nil {
		return rs, err
	}

	if len(factors) > 0 {
		if err := json.Unmarshal(factors, &rs.Factors); err != nil {
			return rs, fmt.Errorf("decode risk factors: %w", err)
		}
	}

	return rs, nil
}
