package domain

import "testing"

func TestDepartureCohortsAddAndMin(t *testing.T) {
	c := NewDepartureCohorts()

	if _, ok := c.Min("08:00"); ok {
		t.Fatal("empty tracker should report no min")
	}

	c.Add("08:00", 59.0)
	c.Add("08:00", 45.0)
	c.Add("08:00", 72.0)
	c.Add("12:30", 88.0)

	if min, ok := c.Min("08:00"); !ok || min != 45.0 {
		t.Errorf("Min(08:00) = %v, %v; want 45.0, true", min, ok)
	}
	if min, ok := c.Min("12:30"); !ok || min != 88.0 {
		t.Errorf("Min(12:30) = %v, %v; want 88.0, true", min, ok)
	}
	if _, ok := c.Min("16:00"); ok {
		t.Error("absent label should report no min")
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
}

func TestDepartureCohortsDeduplicates(t *testing.T) {
	c := NewDepartureCohorts()
	c.Add("08:00", 59.0)
	c.Add("08:00", 59.0)
	c.Add("08:00", 59.0)

	if min, ok := c.Min("08:00"); !ok || min != 59.0 {
		t.Errorf("Min = %v, %v; want 59.0, true", min, ok)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}
