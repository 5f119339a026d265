package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseClassificationMethod(t *testing.T) {
	tests := []struct {
		in     string
		want   ClassificationMethod
		wantOK bool
	}{
		{"hybrid", MethodHybrid, true},
		{"HYBRID", MethodHybrid, true},
		{"  dbscan  ", MethodDBSCAN, true},
		{"DBSCAN_CLUSTERING", MethodDBSCAN, true},
		{"kmeans", MethodKMeans, true},
		{"rule_based", MethodRuleBased, true},
		{"RULE_BASED", MethodRuleBased, true},
		{"random_forest", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseClassificationMethod(tt.in)
		assert.Equal(t, tt.wantOK, ok, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestClassificationValid(t *testing.T) {
	for _, c := range Classifications {
		assert.True(t, c.Valid(), "label %s", c)
	}
	assert.False(t, Classification("TURBO").Valid())
	assert.False(t, Classification("").Valid())
}

func TestDemandPatternValid(t *testing.T) {
	for _, p := range []DemandPattern{PatternSmooth, PatternErratic, PatternIntermittent, PatternLumpy} {
		assert.True(t, p.Valid(), "pattern %s", p)
	}
	assert.False(t, DemandPattern("SPIKY").Valid())
}
