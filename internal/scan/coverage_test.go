package scan

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoverage_ExactlyOnce(t *testing.T) {
	c := NewCoverage()
	var wg sync.WaitGroup
	for w := range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := w; i < 1000; i += 4 {
				c.Mark(i)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1000, c.Processed())
	assert.NoError(t, c.Verify(1000))
}

func TestCoverage_Missing(t *testing.T) {
	c := NewCoverage()
	c.Mark(0)
	c.Mark(2)

	err := c.Verify(3)
	assert.ErrorIs(t, err, ErrCoverage)
	assert.Contains(t, err.Error(), "1 missing (first [1])")
}

func TestCoverage_Repeated(t *testing.T) {
	c := NewCoverage()
	c.Mark(0)
	c.Mark(1)
	c.Mark(1)

	err := c.Verify(2)
	assert.ErrorIs(t, err, ErrCoverage)
	assert.Contains(t, err.Error(), "1 repeated (first [1])")
}

func TestCoverage_Unexpected(t *testing.T) {
	c := NewCoverage()
	c.Mark(0)
	c.Mark(5)

	err := c.Verify(1)
	assert.ErrorIs(t, err, ErrCoverage)
	assert.Contains(t, err.Error(), "1 unexpected")
}

func TestCoverage_OutOfRange(t *testing.T) {
	c := NewCoverage()
	c.Mark(-1)
	assert.ErrorIs(t, c.Verify(0), ErrCoverage)
}

func TestCoverage_Nil(t *testing.T) {
	var c *Coverage
	c.Mark(3)
	assert.Equal(t, 0, c.Processed())
	assert.NoError(t, c.Verify(10))
}

func TestCoverage_Empty(t *testing.T) {
	assert.NoError(t, NewCoverage().Verify(0))
}
