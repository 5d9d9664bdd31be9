package util_test

import (
	"testing"
	"time"

	"github.com/reconova/reconova/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCronSchedule(t *testing.T) {
	schedule, err := util.ParseCronSchedule("0 */6 * * *")
	require.NoError(t, err)

	from := time.Date(2026, 3, 14, 1, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 14, 6, 0, 0, 0, time.UTC), schedule.Next(from))

	_, err = util.ParseCronSchedule("nonsense")
	assert.Error(t, err)
}

func TestNextCronTime(t *testing.T) {
	from := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)

	next, err := util.NextCronTime("0 * * * *", from)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 14, 11, 0, 0, 0, time.UTC), next)
}

func TestValidateCronExpr(t *testing.T) {
	assert.NoError(t, util.ValidateCronExpr("*/5 * * * *"))
	assert.Error(t, util.ValidateCronExpr("* * *"))
}
