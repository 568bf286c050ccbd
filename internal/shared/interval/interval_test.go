package interval

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func clock(h, min int) time.Time {
	return time.Date(0, 1, 1, h, min, 0, 0, time.UTC)
}

func TestNew_OvernightWrap(t *testing.T) {
	d := date(2024, time.January, 15)

	day := New(d, clock(8, 0), clock(16, 0))
	assert.Equal(t, 480, day.Minutes())
	assert.Equal(t, 15, day.To.Day())

	night := New(d, clock(22, 0), clock(6, 0))
	assert.Equal(t, 480, night.Minutes())
	assert.Equal(t, 16, night.To.Day(), "end past midnight lands on the next day")
}

func TestOverlaps(t *testing.T) {
	d := date(2024, time.January, 15)

	tests := []struct {
		name string
		a, b Interval
		want bool
	}{
		{
			name: "partial overlap",
			a:    New(d, clock(9, 0), clock(11, 0)),
			b:    New(d, clock(10, 30), clock(12, 0)),
			want: true,
		},
		{
			name: "touching endpoints are back-to-back, not a collision",
			a:    New(d, clock(9, 0), clock(10, 0)),
			b:    New(d, clock(10, 0), clock(11, 0)),
			want: false,
		},
		{
			name: "fully contained",
			a:    New(d, clock(8, 0), clock(16, 0)),
			b:    New(d, clock(10, 0), clock(11, 0)),
			want: true,
		},
		{
			name: "disjoint",
			a:    New(d, clock(8, 0), clock(9, 0)),
			b:    New(d, clock(13, 0), clock(14, 0)),
			want: false,
		},
		{
			name: "overnight span against next morning",
			a:    New(d, clock(22, 0), clock(6, 0)),
			b:    New(d.AddDate(0, 0, 1), clock(5, 0), clock(7, 0)),
			want: true,
		},
		{
			name: "same day different dates never meet",
			a:    New(d, clock(9, 0), clock(10, 0)),
			b:    New(d.AddDate(0, 0, 1), clock(9, 0), clock(10, 0)),
			want: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.a.Overlaps(tc.b))
			assert.Equal(t, tc.want, tc.b.Overlaps(tc.a), "overlap must be symmetric")
		})
	}
}

func TestNew_EqualEndpointsStayDegenerate(t *testing.T) {
	d := date(2024, time.January, 15)

	point := New(d, clock(9, 0), clock(9, 0))
	assert.Equal(t, 0, point.Minutes(), "equal clocks are a point, not a full day")
	assert.False(t, point.Overlaps(New(d, clock(8, 0), clock(10, 0))))

	instant := atClock(d, clock(9, 0))
	assert.Equal(t, 0, FromInstants(instant, instant).Minutes())
}

func TestOverlaps_DegenerateInterval(t *testing.T) {
	d := date(2024, time.January, 15)
	point := Interval{From: atClock(d, clock(9, 0)), To: atClock(d, clock(9, 0))}
	span := New(d, clock(8, 0), clock(10, 0))

	assert.False(t, point.Overlaps(span))
	assert.False(t, span.Overlaps(point))
	assert.False(t, point.Overlaps(point))
	assert.True(t, span.Overlaps(span), "a real span overlaps itself")
}

func TestClampTo(t *testing.T) {
	d := date(2024, time.January, 15)
	shift := New(d, clock(8, 0), clock(16, 0))

	inside, ok := New(d, clock(12, 0), clock(12, 30)).ClampTo(shift)
	assert.True(t, ok)
	assert.Equal(t, 30, inside.Minutes())

	straddling, ok := New(d, clock(15, 30), clock(16, 30)).ClampTo(shift)
	assert.True(t, ok)
	assert.Equal(t, 30, straddling.Minutes(), "only the in-window portion counts")

	_, ok = New(d, clock(17, 0), clock(17, 30)).ClampTo(shift)
	assert.False(t, ok)
}
