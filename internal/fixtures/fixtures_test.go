package fixtures_test

import (
	"testing"

	"github.com/carlmjohnson/be"

	"farmhub/internal/fixtures"
)

func TestEmbeddedFixturesAreValid(t *testing.T) {
	set, err := fixtures.Load()
	be.NilErr(t, err)
	be.Nonzero(t, len(set.Farms))
	be.Nonzero(t, len(set.Crops))
	be.Nonzero(t, len(set.Tasks))
	be.Nonzero(t, len(set.Transactions))
	be.Nonzero(t, len(set.Weather))

	for _, f := range set.Farms {
		be.NilErr(t, f.Validate())
	}
	for _, c := range set.Crops {
		be.NilErr(t, c.Validate())
	}
	for _, task := range set.Tasks {
		be.NilErr(t, task.Validate())
	}
	for _, tx := range set.Transactions {
		be.NilErr(t, tx.Validate())
	}
}

func TestEmbeddedFixtureIDsIncrease(t *testing.T) {
	set, err := fixtures.Load()
	be.NilErr(t, err)
	var last int64
	for _, tx := range set.Transactions {
		be.True(t, tx.ID > last)
		last = tx.ID
	}
}

func TestLoadDirMissing(t *testing.T) {
	_, err := fixtures.LoadDir(t.TempDir())
	be.Nonzero(t, err)
}
