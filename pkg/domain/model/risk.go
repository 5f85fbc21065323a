package model

import "encoding/json"

// Risk is a tracked enterprise risk scored before and after controls on a 1-10 scale
type Risk struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Description       string  `json:"description"`
	Category          string  `json:"category"`
	InherentRiskScore float64 `json:"inherent_risk_score"`
	ResidualRiskScore float64 `json:"residual_risk_score"`
	Owner             string  `json:"owner"`
	Status            string  `json:"status,omitempty"`
	LinkedControls    IDList  `json:"linked_controls"`
	KRIs              IDList  `json:"kris"`
	AIInsights        *string `json:"ai_insights,omitempty"`
}

// UnmarshalJSON accepts linked_control_ids and kri_ids as aliases
func (r *Risk) UnmarshalJSON(data []byte) error {
	type plain Risk
	var aux struct {
		plain
		LinkedControlIDs IDList `json:"linked_control_ids"`
		KRIIDs           IDList `json:"kri_ids"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	*r = Risk(aux.plain)
	if r.LinkedControls == nil {
		r.LinkedControls = aux.LinkedControlIDs
	}
	if r.KRIs == nil {
		r.KRIs = aux.KRIIDs
	}
	return nil
}

// Clone returns a copy that shares no slices or pointers with r
func (r Risk) Clone() Risk {
	r.LinkedControls = r.LinkedControls.Clone()
	r.KRIs = r.KRIs.Clone()
	if r.AIInsights != nil {
		insights := *r.AIInsights
		r.AIInsights = &insights
	}
	return r
}

// RiskSuggestion is a risk draft proposed by the AI suggester
type RiskSuggestion struct {
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Category      string  `json:"category"`
	InherentScore float64 `json:"inherent_score"`
}
