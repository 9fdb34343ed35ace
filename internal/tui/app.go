package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/motoki/aniterm/internal/domain"
	"github.com/motoki/aniterm/internal/player"
	"github.com/motoki/aniterm/internal/service"
)

const requestTimeout = 45 * time.Second

// level identifies the current drill-down depth.
type level int

const (
	levelAnimes level = iota
	levelSeasons
	levelEpisodes
)

type (
	animesMsg   []domain.Anime
	seasonsMsg  []domain.Season
	episodesMsg []domain.Episode
	cacheMsg    string
	failureMsg  struct{ err error }
	statusMsg   string
)

// form collects field values one prompt at a time for admin mutations.
type form struct {
	title  string
	labels []string
	values []string
	filled int
	input  textinput.Model
	action func(values []string) tea.Cmd
}

// Model is the root TUI model: a drill-down list over the anime catalog
// with admin CRUD bound to keybindings. All data flows through the catalog
// service; the model re-renders off cache notifications.
type Model struct {
	catalog  *service.CatalogService
	session  *service.SessionService
	launcher *player.Launcher

	list   list.Model
	level  level
	anime  domain.Anime  // selected at levelAnimes
	season domain.Season // selected at levelSeasons

	form   *form
	status string
	errMsg string

	events      <-chan string
	unsubscribe func()

	width  int
	height int
}

// NewModel creates the root model and subscribes it to cache events.
func NewModel(catalog *service.CatalogService, session *service.SessionService, launcher *player.Launcher) Model {
	delegate := list.NewDefaultDelegate()
	l := list.New(nil, delegate, 0, 0)
	l.Title = "Anime"
	l.SetShowStatusBar(false)
	l.Styles.Title = titleStyle

	events, unsubscribe := catalog.Cache().Subscribe("")

	return Model{
		catalog:     catalog,
		session:     session,
		launcher:    launcher,
		list:        l,
		level:       levelAnimes,
		events:      events,
		unsubscribe: unsubscribe,
	}
}

// Init loads the anime list and arms the cache-event pump.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadAnimes(), m.waitForCacheEvent())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.list.SetSize(msg.Width, msg.Height-2)
		return m, nil

	case animesMsg:
		if m.level == levelAnimes {
			items := make([]list.Item, len(msg))
			for i, a := range msg {
				items[i] = animeItem{anime: a}
			}
			m.list.SetItems(items)
		}
		return m, nil

	case seasonsMsg:
		if m.level == levelSeasons {
			items := make([]list.Item, len(msg))
			for i, s := range msg {
				items[i] = seasonItem{season: s}
			}
			m.list.SetItems(items)
		}
		return m, nil

	case episodesMsg:
		if m.level == levelEpisodes {
			items := make([]list.Item, len(msg))
			for i, e := range msg {
				items[i] = episodeItem{episode: e}
			}
			m.list.SetItems(items)
		}
		return m, nil

	case cacheMsg:
		// Something wrote or invalidated the cache; re-read the current
		// level (served from cache, refreshed in the background if stale)
		// and keep listening.
		return m, tea.Batch(m.reloadCurrent(), m.waitForCacheEvent())

	case failureMsg:
		m.errMsg = msg.err.Error()
		return m, nil

	case statusMsg:
		m.status = string(msg)
		m.errMsg = ""
		return m, nil

	case tea.KeyMsg:
		if m.form != nil {
			return m.updateForm(msg)
		}
		return m.updateList(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q", "ctrl+c":
		m.unsubscribe()
		return m, tea.Quit

	case "esc":
		return m.drillUp()

	case "enter":
		return m.drillDown()

	case "n":
		return m.startCreateForm()

	case "e":
		return m.startEditForm()

	case "d":
		return m.startDeleteForm()

	case "L":
		m.unsubscribe()
		if err := m.session.Logout(); err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) drillDown() (tea.Model, tea.Cmd) {
	switch m.level {
	case levelAnimes:
		item, ok := m.list.SelectedItem().(animeItem)
		if !ok {
			return m, nil
		}
		m.anime = item.anime
		m.level = levelSeasons
		m.list.Title = item.anime.Title
		m.list.SetItems(nil)
		return m, m.loadSeasons(item.anime.ID)

	case levelSeasons:
		item, ok := m.list.SelectedItem().(seasonItem)
		if !ok {
			return m, nil
		}
		m.season = item.season
		m.level = levelEpisodes
		m.list.Title = m.anime.Title + " / " + item.season.Name
		m.list.SetItems(nil)
		return m, m.loadEpisodes(item.season.ID)

	case levelEpisodes:
		item, ok := m.list.SelectedItem().(episodeItem)
		if !ok || item.episode.VideoURL == "" {
			return m, nil
		}
		if err := m.launcher.Launch(item.episode.VideoURL); err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		m.status = "playing " + item.episode.Title
	}
	return m, nil
}

func (m Model) drillUp() (tea.Model, tea.Cmd) {
	switch m.level {
	case levelSeasons:
		m.level = levelAnimes
		m.list.Title = "Anime"
		m.list.SetItems(nil)
		return m, m.loadAnimes()
	case levelEpisodes:
		m.level = levelSeasons
		m.list.Title = m.anime.Title
		m.list.SetItems(nil)
		return m, m.loadSeasons(m.anime.ID)
	}
	return m, nil
}

// === forms ===

func (m Model) startForm(title string, labels []string, prefill []string, action func(values []string) tea.Cmd) (tea.Model, tea.Cmd) {
	input := textinput.New()
	input.Prompt = labels[0] + ": "
	if len(prefill) > 0 {
		input.SetValue(prefill[0])
	}
	input.Focus()
	m.form = &form{
		title:  title,
		labels: labels,
		values: prefill,
		input:  input,
		action: action,
	}
	return m, textinput.Blink
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.form
	switch msg.String() {
	case "esc":
		m.form = nil
		return m, nil

	case "enter":
		// Replace the prefill for the current field with what was typed.
		current := f.input.Value()
		if f.filled < len(f.values) {
			f.values[f.filled] = current
		} else {
			f.values = append(f.values, current)
		}
		f.filled++
		if f.filled < len(f.labels) {
			f.input.Prompt = f.labels[f.filled] + ": "
			if f.filled < len(f.values) {
				f.input.SetValue(f.values[f.filled])
			} else {
				f.input.SetValue("")
			}
			f.input.CursorEnd()
			return m, nil
		}
		action := f.action
		values := f.values
		m.form = nil
		return m, action(values)
	}

	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	return m, cmd
}

func (m Model) startCreateForm() (tea.Model, tea.Cmd) {
	switch m.level {
	case levelAnimes:
		return m.startForm("New anime",
			[]string{"Title", "Description", "Genre", "Thumbnail URL"}, nil,
			func(v []string) tea.Cmd {
				return m.createAnime(domain.AnimeDraft{
					Title: v[0], Description: v[1], Genre: v[2], ThumbnailURL: v[3],
				})
			})
	case levelSeasons:
		animeID := m.anime.ID
		return m.startForm("New season", []string{"Name"}, nil,
			func(v []string) tea.Cmd {
				return m.createSeason(domain.SeasonDraft{Name: v[0], AnimeID: animeID})
			})
	case levelEpisodes:
		seasonID := m.season.ID
		return m.startForm("New episode",
			[]string{"Title", "Episode number", "Video URL"}, nil,
			func(v []string) tea.Cmd {
				num, err := parseEpisodeNumber(v[1])
				if err != nil {
					return func() tea.Msg { return failureMsg{err} }
				}
				return m.createEpisode(domain.EpisodeDraft{
					Title: v[0], EpisodeNumber: num, VideoURL: v[2], SeasonID: seasonID,
				})
			})
	}
	return m, nil
}

func (m Model) startEditForm() (tea.Model, tea.Cmd) {
	switch m.level {
	case levelAnimes:
		item, ok := m.list.SelectedItem().(animeItem)
		if !ok {
			return m, nil
		}
		a := item.anime
		return m.startForm("Edit anime",
			[]string{"Title", "Description", "Genre", "Thumbnail URL"},
			[]string{a.Title, a.Description, a.Genre, a.ThumbnailURL},
			func(v []string) tea.Cmd {
				return m.updateAnime(a.ID, domain.AnimePatch{
					Title: &v[0], Description: &v[1], Genre: &v[2], ThumbnailURL: &v[3],
				})
			})
	case levelSeasons:
		item, ok := m.list.SelectedItem().(seasonItem)
		if !ok {
			return m, nil
		}
		s := item.season
		return m.startForm("Edit season", []string{"Name"}, []string{s.Name},
			func(v []string) tea.Cmd {
				return m.updateSeason(s.ID, s.AnimeID, domain.SeasonPatch{Name: &v[0]})
			})
	case levelEpisodes:
		item, ok := m.list.SelectedItem().(episodeItem)
		if !ok {
			return m, nil
		}
		e := item.episode
		return m.startForm("Edit episode",
			[]string{"Title", "Episode number", "Video URL"},
			[]string{e.Title, strconv.Itoa(e.EpisodeNumber), e.VideoURL},
			func(v []string) tea.Cmd {
				num, err := parseEpisodeNumber(v[1])
				if err != nil {
					return func() tea.Msg { return failureMsg{err} }
				}
				return m.updateEpisode(e.ID, e.SeasonID, domain.EpisodePatch{
					Title: &v[0], EpisodeNumber: &num, VideoURL: &v[2],
				})
			})
	}
	return m, nil
}

func (m Model) startDeleteForm() (tea.Model, tea.Cmd) {
	switch m.level {
	case levelAnimes:
		item, ok := m.list.SelectedItem().(animeItem)
		if !ok {
			return m, nil
		}
		id := item.anime.ID
		return m.startForm(fmt.Sprintf("Delete %q?", item.anime.Title),
			[]string{"Type y to confirm"}, nil,
			func(v []string) tea.Cmd { return m.confirmDelete(v[0], func() tea.Cmd { return m.deleteAnime(id) }) })
	case levelSeasons:
		item, ok := m.list.SelectedItem().(seasonItem)
		if !ok {
			return m, nil
		}
		id, animeID := item.season.ID, item.season.AnimeID
		return m.startForm(fmt.Sprintf("Delete %q?", item.season.Name),
			[]string{"Type y to confirm"}, nil,
			func(v []string) tea.Cmd {
				return m.confirmDelete(v[0], func() tea.Cmd { return m.deleteSeason(id, animeID) })
			})
	case levelEpisodes:
		item, ok := m.list.SelectedItem().(episodeItem)
		if !ok {
			return m, nil
		}
		id, seasonID := item.episode.ID, item.episode.SeasonID
		return m.startForm(fmt.Sprintf("Delete %q?", item.episode.Title),
			[]string{"Type y to confirm"}, nil,
			func(v []string) tea.Cmd {
				return m.confirmDelete(v[0], func() tea.Cmd { return m.deleteEpisode(id, seasonID) })
			})
	}
	return m, nil
}

// parseEpisodeNumber validates the typed episode-number field before the
// draft or patch is built.
func parseEpisodeNumber(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid episode number %q", strings.TrimSpace(s))
	}
	return n, nil
}

func (m Model) confirmDelete(answer string, run func() tea.Cmd) tea.Cmd {
	if strings.EqualFold(strings.TrimSpace(answer), "y") {
		return run()
	}
	return func() tea.Msg { return statusMsg("delete cancelled") }
}

// === commands ===

func (m Model) reloadCurrent() tea.Cmd {
	switch m.level {
	case levelSeasons:
		return m.loadSeasons(m.anime.ID)
	case levelEpisodes:
		return m.loadEpisodes(m.season.ID)
	default:
		return m.loadAnimes()
	}
}

func (m Model) waitForCacheEvent() tea.Cmd {
	events := m.events
	return func() tea.Msg {
		key, ok := <-events
		if !ok {
			return nil
		}
		return cacheMsg(key)
	}
}

func (m Model) loadAnimes() tea.Cmd {
	catalog := m.catalog
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		animes, err := catalog.Animes(ctx)
		if err != nil {
			return failureMsg{err}
		}
		return animesMsg(animes)
	}
}

func (m Model) loadSeasons(animeID int64) tea.Cmd {
	catalog := m.catalog
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		seasons, err := catalog.Seasons(ctx, animeID)
		if err != nil {
			return failureMsg{err}
		}
		return seasonsMsg(seasons)
	}
}

func (m Model) loadEpisodes(seasonID int64) tea.Cmd {
	catalog := m.catalog
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		episodes, err := catalog.Episodes(ctx, seasonID)
		if err != nil {
			return failureMsg{err}
		}
		return episodesMsg(episodes)
	}
}

func (m Model) createAnime(draft domain.AnimeDraft) tea.Cmd {
	catalog := m.catalog
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		created, err := catalog.CreateAnime(ctx, draft)
		if err != nil {
			return failureMsg{err}
		}
		return statusMsg("created " + created.Title)
	}
}

func (m Model) updateAnime(id int64, patch domain.AnimePatch) tea.Cmd {
	catalog := m.catalog
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if _, err := catalog.UpdateAnime(ctx, id, patch); err != nil {
			return failureMsg{err}
		}
		return statusMsg("anime updated")
	}
}

func (m Model) deleteAnime(id int64) tea.Cmd {
	catalog := m.catalog
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if err := catalog.DeleteAnime(ctx, id); err != nil {
			return failureMsg{err}
		}
		return statusMsg("anime deleted")
	}
}

func (m Model) createSeason(draft domain.SeasonDraft) tea.Cmd {
	catalog := m.catalog
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if _, err := catalog.CreateSeason(ctx, draft); err != nil {
			return failureMsg{err}
		}
		return statusMsg("season created")
	}
}

func (m Model) updateSeason(id, animeID int64, patch domain.SeasonPatch) tea.Cmd {
	catalog := m.catalog
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if _, err := catalog.UpdateSeason(ctx, id, animeID, patch); err != nil {
			return failureMsg{err}
		}
		return statusMsg("season updated")
	}
}

func (m Model) deleteSeason(id, animeID int64) tea.Cmd {
	catalog := m.catalog
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if err := catalog.DeleteSeason(ctx, id, animeID); err != nil {
			return failureMsg{err}
		}
		return statusMsg("season deleted")
	}
}

func (m Model) createEpisode(draft domain.EpisodeDraft) tea.Cmd {
	catalog := m.catalog
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if _, err := catalog.CreateEpisode(ctx, draft); err != nil {
			return failureMsg{err}
		}
		return statusMsg("episode created")
	}
}

func (m Model) updateEpisode(id, seasonID int64, patch domain.EpisodePatch) tea.Cmd {
	catalog := m.catalog
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if _, err := catalog.UpdateEpisode(ctx, id, seasonID, patch); err != nil {
			return failureMsg{err}
		}
		return statusMsg("episode updated")
	}
}

func (m Model) deleteEpisode(id, seasonID int64) tea.Cmd {
	catalog := m.catalog
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if err := catalog.DeleteEpisode(ctx, id, seasonID); err != nil {
			return failureMsg{err}
		}
		return statusMsg("episode deleted")
	}
}

// === view ===

func (m Model) View() string {
	if m.form != nil {
		return promptStyle.Render(m.form.title+"\n\n"+m.form.input.View()) + "\n" +
			statusStyle.Render("enter: next · esc: cancel")
	}

	footer := statusStyle.Render("enter: open · esc: back · n: new · e: edit · d: delete · L: logout · q: quit")
	if m.errMsg != "" {
		footer = errorStyle.Render(m.errMsg)
	} else if m.status != "" {
		footer = statusStyle.Render(m.status)
	}
	return m.list.View() + "\n" + footer
}
