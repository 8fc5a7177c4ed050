package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumber_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		input string
		want  Number
	}{
		{`2`, Number{Value: 2, Valid: true, Raw: "2"}},
		{`1.5`, Number{Value: 1.5, Valid: true, Raw: "1.5"}},
		{`"3"`, Number{Value: 3, Valid: true, Raw: "3"}},
		{`"N/A"`, Number{Raw: "N/A"}},
		{`""`, Number{}},
		{`null`, Number{}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var n Number
			require.NoError(t, json.Unmarshal([]byte(tt.input), &n))
			assert.Equal(t, tt.want, n)
		})
	}
}

func TestNumber_MarshalJSON(t *testing.T) {
	data, err := json.Marshal([]Number{{Value: 2, Valid: true}, {Raw: "N/A"}, {}})
	require.NoError(t, err)
	assert.Equal(t, `[2,"N/A",null]`, string(data))
}

func TestNumber_String(t *testing.T) {
	assert.Equal(t, "2.5", Number{Value: 2.5, Valid: true}.String())
	assert.Equal(t, "Semestre 1", Number{Raw: "Semestre 1"}.String())
	assert.Equal(t, "", Number{}.String())
}

func TestProject_UserGroup(t *testing.T) {
	p := Project{Groups: []ProjectGroup{
		{GroupName: "A", ProjectGroupID: 1, Students: []GroupStudent{{UID: 1}}},
		{GroupName: "B", ProjectGroupID: 2, Students: []GroupStudent{{UID: 2}, {UID: 3}}},
	}}

	g := p.UserGroup(3)
	require.NotNil(t, g)
	assert.Equal(t, "B", g.GroupName)

	assert.Nil(t, p.UserGroup(9))
}

func TestYearList_Invalid(t *testing.T) {
	var years yearList
	assert.Error(t, json.Unmarshal([]byte(`["next"]`), &years))
}
