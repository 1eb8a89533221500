package deduction

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultATORulesValid(t *testing.T) {
	table := DefaultATORules()
	require.NoError(t, table.Validate())
	assert.NotEmpty(t, table.StrategyName)

	eq, ok := table.Categories["Computer Equipment"]
	require.True(t, ok)
	require.NotNil(t, eq.Threshold)
	assert.Equal(t, 300.0, *eq.Threshold)
	require.NotNil(t, eq.DepreciationYears)
	assert.Equal(t, 3.0, *eq.DepreciationYears)

	pd, ok := table.Categories["Professional Development"]
	require.True(t, ok)
	assert.False(t, pd.WorkUseApplicable)
}

func TestLoadRuleTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"strategy_name": "custom",
		"categories": {
			"Tools": {"work_use_applicable": true, "threshold": 500, "depreciation_years": 4}
		}
	}`), 0o644))

	table, err := LoadRuleTable(path)
	require.NoError(t, err)
	assert.Equal(t, "custom", table.StrategyName)
	rule := table.Categories["Tools"]
	assert.Equal(t, 500.0, *rule.Threshold)
	assert.Equal(t, 4.0, *rule.DepreciationYears)
}

func TestLoadRuleTableRejectsWholesale(t *testing.T) {
	cases := map[string]string{
		"empty categories":   `{"strategy_name":"x","categories":{}}`,
		"negative threshold": `{"strategy_name":"x","categories":{"A":{"threshold":-1}}}`,
		"zero depreciation":  `{"strategy_name":"x","categories":{"A":{"depreciation_years":0}}}`,
		"typoed rule key":    `{"strategy_name":"x","categories":{"A":{"thresh0ld":300}}}`,
		"missing strategy":   `{"categories":{"A":{"work_use_applicable":true}}}`,
		"not json":           `{broken`,
	}
	for name, body := range cases {
		path := filepath.Join(t.TempDir(), "rules.json")
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
		_, err := LoadRuleTable(path)
		assert.Error(t, err, name)
	}
}

func TestLoadRuleTableMissingFile(t *testing.T) {
	_, err := LoadRuleTable(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
