package gamestate

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"dig/internal/event"
	"dig/internal/save"
	"dig/internal/sim"
	"dig/internal/ui"
	"dig/internal/world"
)

// Artifact flavour names by site theme. Indexed deterministically per run.
var artifactNames = map[string][]string{
	"corporate": {
		"Quarterly Ledger", "Merger Memo", "Payroll Archive",
		"Board Minutes", "Exit Interview Tape", "Org Chart v7",
	},
	"personal": {
		"Family Photo Album", "Love Letter Draft", "Diary Fragment",
		"Voicemail Backup", "Recipe Collection", "Mixtape Index",
	},
	"research": {
		"Experiment Log", "Peer Review Draft", "Simulation Dataset",
		"Lab Notebook", "Grant Proposal", "Anomaly Report",
	},
}

var daemonNames = []string{
	"watchdog.exe", "indexer.bin", "av_scan.d", "janitor.sh", "sentinel.sys",
}

// Gameplay is one dig-site run: a fresh site, fresh systems and a fresh
// event queue, torn down when the state pops.
type Gameplay struct {
	seed    int64
	profile world.SiteProfile

	events    *event.Queue
	fs        *sim.Filesystem
	resources *sim.Resources
	artifacts *sim.Artifacts
	daemons   *sim.Daemons
	commands  *sim.Commands

	terminal *ui.Terminal
	panel    *ui.StatusPanel
	toolbar  *ui.Toolbar

	runOver bool
	saved   bool
}

func NewGameplay() *Gameplay { return &Gameplay{} }

// Enter builds the whole run. Everything hangs off the per-run event
// queue, so popping the state drops the lot.
func (g *Gameplay) Enter(ctx Context) {
	cfg := ctx.Config()

	g.seed = cfg.Gameplay.Seed
	if g.seed == 0 {
		g.seed = time.Now().UnixNano()
	}
	g.profile = profileByName(cfg.Gameplay.SiteProfile)

	site := world.NewGenerator(g.profile, g.seed).Generate()

	g.events = event.New()
	fs, err := sim.NewFilesystem(site, g.events)
	if err != nil {
		log.Printf("gamestate: site rejected: %v", err)
		ctx.Pop()
		return
	}
	g.fs = fs
	g.resources = sim.NewResources(g.events,
		cfg.Gameplay.StartPower, cfg.Gameplay.StartMemory, cfg.Gameplay.StartEnergy,
		cfg.Gameplay.EnergyDrain)
	g.artifacts = sim.NewArtifacts(g.events, g.resources)
	g.daemons = sim.NewDaemons(g.events, g.resources, fs.Nodes(), g.seed)
	g.commands = sim.NewCommands(g.events, fs, g.resources, g.artifacts)

	rng := rand.New(rand.NewSource(g.seed))
	g.registerArtifacts(site, rng)
	g.spawnDaemons(site, rng)

	g.terminal = ui.NewTerminal(cfg.Terminal.Cols, cfg.Terminal.Rows, cfg.Terminal.FontSize)
	g.terminal.OnSubmit = g.runCommand
	g.terminal.Candidates = g.completionCandidates
	g.terminal.AttachEvents(g.events)

	g.panel = ui.NewStatusPanel(cfg.Terminal.FontSize-2,
		g.resources, g.artifacts, g.daemons, g.events)
	g.toolbar = ui.NewToolbar(float64(cfg.Window.Width), cfg.Terminal.FontSize)
	g.toolbar.Title = g.profile.Name

	g.events.Subscribe(event.QuitRequested, func(event.Event) {
		g.runOver = true
	})
	g.events.Subscribe(event.ResourceDepleted, func(ev event.Event) {
		if ev.Payload["resource"] == sim.Power.String() {
			g.terminal.Print("", "** POWER EXHAUSTED — CONNECTION LOST **")
			g.runOver = true
		}
	})

	g.terminal.Print(
		fmt.Sprintf("CONNECTED: %s", g.profile.Name),
		fmt.Sprintf("Link seed %d. Type HELP to begin.", g.seed),
		"",
	)
}

// registerArtifacts turns the generator's artifact ids into full records
// with flavour names and rolled rarity.
func (g *Gameplay) registerArtifacts(site world.Site, rng *rand.Rand) {
	names := artifactNames[g.profile.Theme]
	if len(names) == 0 {
		names = artifactNames["corporate"]
	}

	i := 0
	walkSite(site, func(n *world.Node) {
		if !n.HasArtifact() {
			return
		}
		g.artifacts.Register(&sim.Artifact{
			ID:          n.ArtifactID,
			Name:        names[i%len(names)],
			Description: fmt.Sprintf("Recovered from /%s on %s.", n.Name, g.profile.Name),
			NodeID:      n.ID,
			Rarity:      rollRarity(rng),
		})
		i++
	})
	log.Printf("gamestate: run seeded with %d artifacts", i)
}

// spawnDaemons places a daemon on roughly every third directory, skipping
// the root so the player gets a quiet first turn.
func (g *Gameplay) spawnDaemons(site world.Site, rng *rand.Rand) {
	i := 0
	walkSite(site, func(n *world.Node) {
		if !n.IsDirectory() || n.IsRoot() {
			return
		}
		if i%3 == 0 {
			d := sim.NewDaemon(
				daemonNames[i%len(daemonNames)],
				sim.Personality(rng.Intn(3)),
				n.ID,
			)
			if err := g.daemons.Add(d); err != nil {
				log.Printf("gamestate: %v", err)
			}
		}
		i++
	})
}

// walkSite visits every node depth-first from the root, in child order.
func walkSite(site world.Site, visit func(*world.Node)) {
	var walk func(*world.Node)
	walk = func(n *world.Node) {
		visit(n)
		for _, cid := range n.ChildIDs {
			if c := site.Nodes[cid]; c != nil {
				walk(c)
			}
		}
	}
	if site.Root != nil {
		walk(site.Root)
	}
}

func rollRarity(rng *rand.Rand) sim.Rarity {
	switch r := rng.Float64(); {
	case r < 0.55:
		return sim.Common
	case r < 0.82:
		return sim.Uncommon
	case r < 0.96:
		return sim.Rare
	default:
		return sim.Legendary
	}
}

func profileByName(name string) world.SiteProfile {
	switch name {
	case "personal":
		return world.PersonalProfile()
	case "research":
		return world.ResearchProfile()
	case "", "corporate":
		return world.CorporateProfile()
	}
	// Unknown names are treated as profile file paths.
	p, err := world.LoadProfile(name)
	if err != nil {
		log.Printf("gamestate: %v — falling back to corporate profile", err)
		return world.CorporateProfile()
	}
	return p
}

// runCommand executes one entered line and advances the simulation a turn.
func (g *Gameplay) runCommand(raw string) {
	result := g.commands.Execute(raw)
	g.terminal.Print(result.Lines...)

	if !result.OK {
		// Failed commands cost no turn.
		g.events.Flush()
		return
	}

	g.events.AdvanceTurn()
	g.fs.Tick()
	g.resources.Tick()
	g.daemons.Tick(g.fs.Cwd().ID, g.commands.LastActionNodeID())
	g.events.Flush()
}

// completionCandidates feeds tab completion: verbs, visible names here,
// and collected artifact ids for SELL.
func (g *Gameplay) completionCandidates() []string {
	out := append([]string(nil), sim.Verbs...)
	for _, n := range g.fs.List(false) {
		out = append(out, n.Name)
	}
	for _, a := range g.artifacts.Collected() {
		out = append(out, a.ID)
	}
	return out
}

func (g *Gameplay) Update(ctx Context) error {
	if g.runOver {
		ctx.Pop()
		return nil
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.runOver = true
		return nil
	}

	switch g.toolbar.Update() {
	case ui.ActionMenu:
		g.runOver = true
	case ui.ActionHelp:
		g.terminal.Print(g.commands.Execute("HELP").Lines...)
	}

	g.terminal.Update()
	g.events.Flush()
	return nil
}

func (g *Gameplay) Draw(screen *ebiten.Image) {
	screen.Fill(ui.ColorBackground)
	g.toolbar.Draw(screen)
	g.terminal.Draw(screen, 0, ui.ToolbarHeight)

	panelX := g.terminal.Width()
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	g.panel.Draw(screen, panelX, ui.ToolbarHeight,
		float64(w)-panelX, float64(h)-ui.ToolbarHeight)
}

// Exit writes the run's stats. Saving is best effort.
func (g *Gameplay) Exit(ctx Context) {
	cfg := ctx.Config()
	if g.saved || !cfg.Saves.Enabled || g.events == nil {
		return
	}
	g.saved = true

	stats := save.RunStats{
		Site:               g.profile.Name,
		Seed:               g.seed,
		Turns:              g.events.Turn(),
		ArtifactsRecovered: len(g.artifacts.Collected()) + g.artifacts.SoldCount(),
		ArtifactsSold:      g.artifacts.SoldCount(),
		CreditsEarned:      g.artifacts.Credits(),
	}
	if _, err := save.Write(cfg.Saves.Dir, stats); err != nil {
		log.Printf("gamestate: saving run stats: %v", err)
	}
}
