package seed

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/studbuds/internal/app/repositories/memory"
	"github.com/yigit/studbuds/internal/app/services"
)

func TestCreateDefaultDataIsRepeatable(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewStore().Repos()
	classes := services.NewClassService(repos, time.Now, zerolog.Nop())

	require.NoError(t, CreateDefaultData(ctx, classes, zerolog.Nop()))
	require.NoError(t, CreateDefaultData(ctx, classes, zerolog.Nop()))

	all, err := classes.ListClasses(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, len(DefaultClasses))

	cs, err := classes.GetClassByCode(ctx, "cs201")
	require.NoError(t, err)
	assert.Equal(t, "Data Structures", cs.Name)
}
