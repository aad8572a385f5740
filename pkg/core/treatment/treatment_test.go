package treatment

import (
	"testing"

	"finmodel/pkg/models"
)

func TestInferDictionaryMatches(t *testing.T) {
	cases := []struct {
		label   string
		section models.Section
		impact  models.Impact
	}{
		{"Depreciation", models.SectionOperating, models.ImpactPositive},
		{"Amortization of Intangibles", models.SectionOperating, models.ImpactPositive},
		{"Stock-Based Compensation", models.SectionOperating, models.ImpactPositive},
		{"Gain on Sale of Assets", models.SectionOperating, models.ImpactNegative},
		{"Increase in Accounts Receivable", models.SectionOperating, models.ImpactNegative},
		{"Increase in Accounts Payable", models.SectionOperating, models.ImpactPositive},
		{"Capital Expenditures", models.SectionInvesting, models.ImpactNegative},
		{"Sale of Investments", models.SectionInvesting, models.ImpactPositive},
		{"Debt Issuance", models.SectionFinancing, models.ImpactPositive},
		{"Dividends Paid", models.SectionFinancing, models.ImpactNegative},
		{"Share Repurchases", models.SectionFinancing, models.ImpactNegative},
	}
	for _, tc := range cases {
		res := Infer(tc.label, tc.section)
		if res.Impact != tc.impact {
			t.Errorf("Infer(%q, %s).Impact = %s, want %s", tc.label, tc.section, res.Impact, tc.impact)
		}
		if res.Confidence != ConfidenceHigh {
			t.Errorf("Infer(%q, %s).Confidence = %s, want high", tc.label, tc.section, res.Confidence)
		}
		if res.Description == "" {
			t.Errorf("Infer(%q, %s) has no rationale", tc.label, tc.section)
		}
	}
}

func TestInferFuzzyMatchSurvivesTypos(t *testing.T) {
	res := Infer("Depreciaton", models.SectionOperating) // missing 'i'
	if res.Impact != models.ImpactPositive || res.Confidence != ConfidenceHigh {
		t.Errorf("typo lookup = (%s, %s), want (positive, high)", res.Impact, res.Confidence)
	}
}

func TestInferKeywordMatches(t *testing.T) {
	cases := []struct {
		label   string
		section models.Section
		impact  models.Impact
	}{
		{"Decrease in Prepaid Rent", models.SectionOperating, models.ImpactPositive},
		{"Increase in Contract Assets", models.SectionOperating, models.ImpactNegative},
		{"Litigation Settlement Payment", models.SectionOperating, models.ImpactNegative},
		{"Proceeds from Land Disposal", models.SectionInvesting, models.ImpactPositive},
		{"Purchase of Patents", models.SectionInvesting, models.ImpactNegative},
		{"Repayment of Credit Facility", models.SectionFinancing, models.ImpactNegative},
		{"Convertible Note Issuance", models.SectionFinancing, models.ImpactPositive},
	}
	for _, tc := range cases {
		res := Infer(tc.label, tc.section)
		if res.Impact != tc.impact {
			t.Errorf("Infer(%q, %s).Impact = %s, want %s", tc.label, tc.section, res.Impact, tc.impact)
		}
		if res.Confidence != ConfidenceMedium {
			t.Errorf("Infer(%q, %s).Confidence = %s, want medium", tc.label, tc.section, res.Confidence)
		}
	}
}

func TestInferSectionFallbacks(t *testing.T) {
	cases := []struct {
		section models.Section
		impact  models.Impact
	}{
		{models.SectionOperating, models.ImpactPositive},
		{models.SectionInvesting, models.ImpactNegative},
		{models.SectionFinancing, models.ImpactPositive},
	}
	for _, tc := range cases {
		res := Infer("Miscellaneous Item", tc.section)
		if res.Impact != tc.impact {
			t.Errorf("fallback for %s = %s, want %s", tc.section, res.Impact, tc.impact)
		}
		if res.Confidence != ConfidenceLow {
			t.Errorf("fallback confidence for %s = %s, want low", tc.section, res.Confidence)
		}
	}
}

func TestInferNeverRejects(t *testing.T) {
	res := Infer("", models.SectionOperating)
	if res.Impact == "" {
		t.Error("empty label should still produce a verdict")
	}
}

func TestApplyPersistsInferredLink(t *testing.T) {
	l := &models.Line{ID: "sbc", Label: "Stock-Based Compensation", Kind: models.KindInput}
	res := Apply(l, models.SectionOperating)

	if l.CFSLink == nil {
		t.Fatal("link was not persisted")
	}
	if !l.CFSLink.Inferred {
		t.Error("persisted link should be marked inferred")
	}
	if l.CFSLink.Impact != res.Impact || l.CFSLink.Impact != models.ImpactPositive {
		t.Errorf("persisted impact = %s, want positive", l.CFSLink.Impact)
	}
}

func TestApplyLeavesExplicitLinkAlone(t *testing.T) {
	explicit := &models.CFSLink{Section: models.SectionOperating, Impact: models.ImpactNegative, Description: "Analyst override"}
	l := &models.Line{ID: "odd_item", Label: "Depreciation", Kind: models.KindInput, CFSLink: explicit}

	Apply(l, models.SectionOperating)

	if l.CFSLink != explicit || l.CFSLink.Impact != models.ImpactNegative {
		t.Error("explicit link was overwritten by inference")
	}
}
