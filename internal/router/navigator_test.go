package router

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnterClosesPreviousScopeAndScanner(t *testing.T) {
	nav := NewNavigator()
	checkin := nav.Enter(PageCheckin)

	scanner, err := checkin.AcquireScanner()
	require.NoError(t, err)
	stopped := false
	checkin.OnClose(func() { stopped = true })

	home := nav.Enter(PageHome)

	assert.True(t, checkin.Closed())
	assert.False(t, scanner.Active(), "leaving the page must release the camera")
	assert.True(t, stopped)
	assert.False(t, home.Closed())
	assert.True(t, nav.IsCurrent(home.Generation()))
	assert.False(t, nav.IsCurrent(checkin.Generation()))
}

func TestScopeAllowsOneScanner(t *testing.T) {
	scope := NewNavigator().Enter(PageAmigos)

	first, err := scope.AcquireScanner()
	require.NoError(t, err)
	_, err = scope.AcquireScanner()
	assert.ErrorIs(t, err, ErrScannerBusy)

	first.Release()
	second, err := scope.AcquireScanner()
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	_, ok := scope.Scanner(first.ID)
	assert.False(t, ok, "released scanner id must not be accepted")
	_, ok = scope.Scanner(second.ID)
	assert.True(t, ok)
}

func TestStaleResultsAreDropped(t *testing.T) {
	nav := NewNavigator()
	scope := nav.Enter(PageCheckin)
	scanner, err := scope.AcquireScanner()
	require.NoError(t, err)

	nav.Enter(PageBottles)

	_, ok := nav.ActiveScanner(scanner.ID)
	assert.False(t, ok)
	applied := scope.Apply(func() { t.Fatal("closed scope must not apply results") })
	assert.False(t, applied)

	_, err = scope.AcquireScanner()
	assert.ErrorIs(t, err, ErrScopeClosed)
}

func TestOnCloseAfterCloseRunsImmediately(t *testing.T) {
	nav := NewNavigator()
	scope := nav.Enter(PageDashboard)
	nav.Close()

	ran := false
	scope.OnClose(func() { ran = true })
	assert.True(t, ran)
}

func TestClosersRunOnce(t *testing.T) {
	nav := NewNavigator()
	scope := nav.Enter(PageDashboard)
	count := 0
	scope.OnClose(func() { count++ })

	nav.Enter(PageCustomers)
	nav.Close()
	scope.close()
	assert.Equal(t, 1, count)
}

func TestRegistryDropClosesNavigator(t *testing.T) {
	reg := NewRegistry()
	nav := reg.For("s1")
	assert.Same(t, nav, reg.For("s1"))

	scope := nav.Enter(PageDashboard)
	reg.Drop("s1")

	assert.True(t, scope.Closed())
	_, ok := reg.Lookup("s1")
	assert.False(t, ok)
	assert.Equal(t, 0, reg.Len())
}

func TestRegistrySweepDropsIdleNavigators(t *testing.T) {
	reg := NewRegistry()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	reg.now = func() time.Time { return now }

	idle := reg.For("expired")
	scope := idle.Enter(PageDashboard)

	now = now.Add(20 * time.Hour)
	reg.For("active")

	now = now.Add(5 * time.Hour)
	assert.Equal(t, 1, reg.Sweep(24*time.Hour))

	assert.True(t, scope.Closed())
	_, ok := reg.Lookup("expired")
	assert.False(t, ok)
	_, ok = reg.Lookup("active")
	assert.True(t, ok)
	assert.Equal(t, 1, reg.Len())
}

func TestConcurrentNavigation(t *testing.T) {
	nav := NewNavigator()
	var wg sync.WaitGroup
	scopes := make(chan *Scope, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			scopes <- nav.Enter(PageHome)
		}()
	}
	wg.Wait()
	close(scopes)

	open := 0
	for s := range scopes {
		if !s.Closed() {
			open++
		}
	}
	assert.Equal(t, 1, open, "exactly one page stays mounted")
}
