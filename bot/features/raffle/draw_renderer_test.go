package raffle

import (
	"sync"
	"testing"
	"time"

	"rifa/domain/entities"
	"rifa/domain/services"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEditor struct {
	mu    sync.Mutex
	edits []*discordgo.MessageEdit
}

func (f *fakeEditor) ChannelMessageEditComplex(m *discordgo.MessageEdit, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.edits = append(f.edits, m)
	return &discordgo.Message{ID: m.ID, ChannelID: m.Channel}, nil
}

func (f *fakeEditor) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.edits)
}

func (f *fakeEditor) description(i int) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return (*f.edits[i].Embeds)[0].Description
}

func spinning(n int) services.DrawSnapshot {
	return services.DrawSnapshot{
		Title:          "Rifa",
		Range:          entities.Range{InitialSeq: 1, FinalSeq: 10},
		Phase:          entities.DrawPhaseSpinning,
		CurrentNumber:  &n,
		AvailableCount: 10,
	}
}

func TestDrawRenderer_IgnoresUntrackedKeys(t *testing.T) {
	editor := &fakeEditor{}
	renderer := NewDrawRenderer(editor, time.Millisecond)
	defer renderer.Stop()

	renderer.HandleSnapshot("channel", spinning(1))

	assert.Never(t, func() bool { return editor.count() > 0 }, 50*time.Millisecond, 5*time.Millisecond)
}

func TestDrawRenderer_ThrottlesSpinningFrames(t *testing.T) {
	editor := &fakeEditor{}
	renderer := NewDrawRenderer(editor, time.Hour)
	defer renderer.Stop()

	renderer.Track("channel", "c1", "m1")
	renderer.HandleSnapshot("channel", spinning(1))
	require.Eventually(t, func() bool { return editor.count() == 1 }, time.Second, 5*time.Millisecond)

	for n := 2; n <= 9; n++ {
		renderer.HandleSnapshot("channel", spinning(n))
	}
	winner := 7
	renderer.HandleSnapshot("channel", services.DrawSnapshot{
		Title:          "Rifa",
		Range:          entities.Range{InitialSeq: 1, FinalSeq: 10},
		Phase:          entities.DrawPhaseResolved,
		Winner:         &winner,
		History:        []int{7},
		AvailableCount: 9,
	})

	require.Eventually(t, func() bool { return editor.count() == 2 }, time.Second, 5*time.Millisecond)
	assert.Contains(t, editor.description(0), "# 🎰 1")
	assert.Contains(t, editor.description(1), "VENCEDOR: 7")

	assert.Never(t, func() bool { return editor.count() > 2 }, 50*time.Millisecond, 5*time.Millisecond)
}

func TestDrawRenderer_ClosedSnapshotStopsTracking(t *testing.T) {
	editor := &fakeEditor{}
	renderer := NewDrawRenderer(editor, time.Millisecond)
	defer renderer.Stop()

	renderer.Track("channel", "c1", "m1")
	id, ok := renderer.MessageID("channel")
	require.True(t, ok)
	assert.Equal(t, "m1", id)

	renderer.HandleSnapshot("channel", services.DrawSnapshot{Title: "Rifa", Phase: entities.DrawPhaseClosed})

	require.Eventually(t, func() bool {
		_, tracked := renderer.MessageID("channel")
		return !tracked
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, editor.count())

	editor.mu.Lock()
	edit := editor.edits[0]
	editor.mu.Unlock()
	assert.Equal(t, "c1", edit.Channel)
	assert.Equal(t, "m1", edit.ID)
	row := (*edit.Components)[0].(discordgo.ActionsRow)
	for _, c := range row.Components {
		assert.True(t, c.(discordgo.Button).Disabled)
	}
}
