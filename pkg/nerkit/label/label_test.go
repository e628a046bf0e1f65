package label

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/nerkit/pkg/nerkit/entity"
	"github.com/cognicore/nerkit/pkg/nerkit/internalerr"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Label
	}{
		{in: "O", want: O()},
		{in: "<other>", want: O()},
		{in: "B-PERSON", want: B(entity.Person)},
		{in: "I-LOCATION", want: I(entity.Location)},
		{in: "B-PERSON_TYPE", want: B(entity.PersonType)},
		{in: " I-SPORT_TEAM ", want: I(entity.SportTeam)},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestParseErrors(t *testing.T) {
	for _, in := range []string{"", "X-PERSON", "B-", "B-SPACESHIP", "PERSON"} {
		_, err := Parse(in)
		assert.True(t, errors.Is(err, internalerr.ErrUnknownLabel), in)
	}
}

func TestStringRoundTrip(t *testing.T) {
	for _, l := range []Label{O(), B(entity.Award), I(entity.Website)} {
		back, err := Parse(l.String())
		require.NoError(t, err)
		assert.Equal(t, l, back)
	}
}

func TestTypeAndContinues(t *testing.T) {
	_, ok := O().Type()
	assert.False(t, ok)

	ty, ok := B(entity.Event).Type()
	assert.True(t, ok)
	assert.Equal(t, entity.Event, ty)

	assert.True(t, I(entity.Event).Continues(entity.Event))
	assert.False(t, B(entity.Event).Continues(entity.Event))
	assert.False(t, I(entity.Person).Continues(entity.Event))
	assert.Equal(t, Outside, Label{}.Kind())
}

func TestOf(t *testing.T) {
	s := Of(O(), B(entity.Person))
	require.Len(t, s, 2)
	assert.False(t, s[1].HasProb)
	assert.Equal(t, B(entity.Person), s[1].Label)
}
