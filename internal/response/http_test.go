package response

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFailedResponseKeepsEmptyData(t *testing.T) {
	raw, err := json.Marshal(Failed([]int{}, "data source failure"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":false,"message":"data source failure","data":[]}`, string(raw))
}

func TestOKResponse(t *testing.T) {
	raw, err := json.Marshal(OK(map[string]int{"total": 2}, ""))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"data":{"total":2}}`, string(raw))
}
