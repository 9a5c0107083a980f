package simcard

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

func newTestCard(t *testing.T, opts ...Option) (*Card, *test.Hook) {
	t.Helper()

	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	card, err := New(5554, 0, append([]Option{WithLogger(logger)}, opts...)...)
	require.NoError(t, err)
	return card, hook
}

func newDynamicCard(t *testing.T) *Card {
	t.Helper()
	card, _ := newTestCard(t, WithFiles(DefaultProfile(5554, 0)...))
	require.Equal(t, ModeDynamic, card.Mode())
	return card
}
