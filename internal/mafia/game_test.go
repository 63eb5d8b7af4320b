package mafia

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 1, 2, 20, 0, 0, 0, time.UTC)

// keepOrder leaves the roster as seated, so the first joiners get the
// mafia seats, then the doctor.
type keepOrder struct{}

func (keepOrder) Shuffle(int, func(i, j int)) {}

// newLobby seats the host plus n-1 guests named p1..p(n-1).
func newLobby(t *testing.T, n int) *Game {
	t.Helper()
	g := NewGame("g1", "host", t0)
	for i := 1; i < n; i++ {
		require.NoError(t, g.Join(fmt.Sprintf("p%d", i)))
	}
	return g
}

func newStarted(t *testing.T, n int) *Game {
	t.Helper()
	g := newLobby(t, n)
	require.NoError(t, g.Start("host", keepOrder{}, t0.Add(time.Minute)))
	return g
}

func rolesOf(g *Game) map[Role][]string {
	out := make(map[Role][]string)
	for _, p := range g.players {
		out[p.Role] = append(out[p.Role], p.Username)
	}
	return out
}

func TestNewGame_HostSeated(t *testing.T) {
	g := NewGame("abc", "alice", t0)

	assert.Equal(t, "abc", g.ID())
	assert.Equal(t, "alice", g.Host())
	assert.Equal(t, PhaseLobby, g.Phase())
	assert.Equal(t, WinnerNone, g.Winner())
	require.Len(t, g.Players(), 1)
	assert.Equal(t, Player{Username: "alice", Alive: true}, g.Players()[0])
	assert.Equal(t, t0, g.CreatedAt())
}

func TestJoin(t *testing.T) {
	t.Run("appends in join order", func(t *testing.T) {
		g := newLobby(t, 3)
		names := []string{}
		for _, p := range g.Players() {
			names = append(names, p.Username)
			assert.True(t, p.Alive)
			assert.Equal(t, RoleNone, p.Role)
		}
		assert.Equal(t, []string{"host", "p1", "p2"}, names)
	})

	t.Run("rejoin is a no-op", func(t *testing.T) {
		g := newLobby(t, 3)
		require.NoError(t, g.Join("p1"))
		require.NoError(t, g.Join("host"))
		assert.Equal(t, 3, g.PlayerCount())
	})

	t.Run("full at fifteen", func(t *testing.T) {
		g := newLobby(t, MaxPlayers)
		assert.ErrorIs(t, g.Join("late"), ErrGameFull)
		assert.NoError(t, g.Join("p3"), "members can still rejoin a full lobby")
		assert.Equal(t, MaxPlayers, g.PlayerCount())
	})

	t.Run("closed after start", func(t *testing.T) {
		g := newStarted(t, 4)
		err := g.Join("late")
		assert.ErrorIs(t, err, ErrGameNotStartable)
		assert.ErrorIs(t, err, ErrWrongPhase)
		assert.Equal(t, 4, g.PlayerCount())
	})
}

func TestStart(t *testing.T) {
	t.Run("host only", func(t *testing.T) {
		g := newLobby(t, 4)
		assert.ErrorIs(t, g.Start("p1", keepOrder{}, t0), ErrForbidden)
		assert.Equal(t, PhaseLobby, g.Phase())
	})

	t.Run("roster too small leaves lobby untouched", func(t *testing.T) {
		g := newLobby(t, 3)
		assert.ErrorIs(t, g.Start("host", keepOrder{}, t0), ErrRosterSizeInvalid)
		assert.Equal(t, PhaseLobby, g.Phase())
		for _, p := range g.Players() {
			assert.Equal(t, RoleNone, p.Role)
		}
	})

	t.Run("enters first night", func(t *testing.T) {
		g := newStarted(t, 4)
		assert.Equal(t, PhaseNight, g.Phase())
		assert.Equal(t, 1, g.Round())
		assert.Equal(t, t0.Add(time.Minute), g.LastPhaseChange())
		assert.Empty(t, g.MafiaTargets())
		assert.Empty(t, g.DayVotes())
		_, shielded := g.DoctorTarget()
		assert.False(t, shielded)
	})

	t.Run("only once", func(t *testing.T) {
		g := newStarted(t, 4)
		assert.ErrorIs(t, g.Start("host", keepOrder{}, t0), ErrWrongPhase)
	})
}

func TestAssignRoles_Counts(t *testing.T) {
	for n := MinPlayers; n <= MaxPlayers; n++ {
		for seed := int64(0); seed < 20; seed++ {
			g := newLobby(t, n)
			require.NoError(t, g.assignRoles(rand.New(rand.NewSource(seed))))

			roles := rolesOf(g)
			wantMafia := 1
			if n > 12 {
				wantMafia = 3
			}
			assert.Len(t, roles[RoleMafia], wantMafia, "n=%d", n)
			assert.Len(t, roles[RoleDoctor], 1, "n=%d", n)
			assert.Len(t, roles[RoleVillager], n-wantMafia-1, "n=%d", n)
			assert.Empty(t, roles[RoleNone])

			seen := map[string]bool{}
			for _, p := range g.players {
				assert.False(t, seen[p.Username], "duplicate %s", p.Username)
				seen[p.Username] = true
			}
			assert.Len(t, seen, n)
		}
	}
}

func TestAssignRoles_RejectsRosterSize(t *testing.T) {
	for _, n := range []int{1, 2, 3} {
		g := newLobby(t, n)
		assert.ErrorIs(t, g.assignRoles(keepOrder{}), ErrRosterSizeInvalid)
	}

	g := newLobby(t, MaxPlayers)
	g.players = append(g.players, &Player{Username: "extra", Alive: true})
	assert.ErrorIs(t, g.assignRoles(keepOrder{}), ErrRosterSizeInvalid)
}

func TestAssignRoles_EverySeatCanBeMafia(t *testing.T) {
	hits := map[string]int{}
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 400; i++ {
		g := newLobby(t, 4)
		require.NoError(t, g.assignRoles(r))
		hits[rolesOf(g)[RoleMafia][0]]++
	}
	for _, name := range []string{"host", "p1", "p2", "p3"} {
		assert.Greater(t, hits[name], 50, "%s was mafia %d times", name, hits[name])
	}
}
