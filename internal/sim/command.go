package sim

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"dig/internal/event"
	"dig/internal/world"
)

// Result is what Execute hands back to the UI. The terminal prints Lines
// verbatim and never calls game systems itself.
type Result struct {
	OK    bool
	Verb  string
	Lines []string
	Err   string
}

func ok(verb string, lines ...string) Result {
	return Result{OK: true, Verb: verb, Lines: lines}
}

func fail(verb, msg string) Result {
	return Result{Verb: verb, Err: msg, Lines: []string{"ERROR: " + msg}}
}

// Verbs understood by the command handler, in HELP display order.
var Verbs = []string{
	"SCAN", "CARVE", "RECON", "SELL", "LS", "CD", "PWD", "STATUS", "HELP", "QUIT",
}

// Per-verb resource costs, checked then spent before the verb runs.
var commandCosts = map[string][]struct {
	resource Resource
	amount   float64
}{
	"SCAN":  {{Power, 5}},
	"CARVE": {{Power, 8}, {Energy, 4}},
	"RECON": {{Power, 12}},
}

// Commands parses raw player input and dispatches to the game systems.
type Commands struct {
	events    *event.Queue
	fs        *Filesystem
	resources *Resources
	artifacts *Artifacts

	lastActionNodeID string
}

// NewCommands wires the handler to the systems it drives.
func NewCommands(events *event.Queue, fs *Filesystem, resources *Resources, artifacts *Artifacts) *Commands {
	return &Commands{events: events, fs: fs, resources: resources, artifacts: artifacts}
}

// LastActionNodeID is where the player last ran a command; the daemon
// system reads it each turn as the noise source.
func (c *Commands) LastActionNodeID() string { return c.lastActionNodeID }

// Execute tokenises raw input, charges the verb's resource cost and runs
// it. The returned Result is always printable; player errors never escape
// as Go errors.
func (c *Commands) Execute(raw string) Result {
	tokens := strings.Fields(raw)
	if len(tokens) == 0 {
		return fail("", "No command entered.")
	}

	verb := strings.ToUpper(tokens[0])
	args := tokens[1:]

	c.events.PostImmediate(event.CommandEntered, map[string]any{
		"verb": verb,
		"args": args,
		"raw":  raw,
	}, "Commands")

	handler := c.handlerFor(verb)
	if handler == nil {
		return fail(verb, fmt.Sprintf("Unknown command: %q. Type HELP for a list.", verb))
	}

	if res, paid := c.checkAndSpend(verb); !paid {
		return res
	}

	result := handler(args)
	c.lastActionNodeID = c.fs.Cwd().ID
	return result
}

func (c *Commands) handlerFor(verb string) func([]string) Result {
	switch verb {
	case "SCAN":
		return c.cmdScan
	case "CARVE":
		return c.cmdCarve
	case "RECON":
		return c.cmdRecon
	case "SELL":
		return c.cmdSell
	case "LS":
		return c.cmdLs
	case "CD":
		return c.cmdCd
	case "PWD":
		return c.cmdPwd
	case "STATUS":
		return c.cmdStatus
	case "HELP":
		return c.cmdHelp
	case "QUIT":
		return c.cmdQuit
	}
	return nil
}

func (c *Commands) checkAndSpend(verb string) (Result, bool) {
	costs := commandCosts[verb]
	for _, cost := range costs {
		if !c.resources.CanAfford(cost.resource, cost.amount) {
			return fail(verb, fmt.Sprintf(
				"Insufficient %s (need %.0f, have %.0f).",
				cost.resource, cost.amount, c.resources.Current(cost.resource),
			)), false
		}
	}
	for _, cost := range costs {
		c.resources.Consume(cost.resource, cost.amount, verb)
	}
	return Result{}, true
}

// playerError unwraps filesystem errors into display text; anything else
// is an internal bug and gets logged.
func playerError(verb string, err error) Result {
	if errors.Is(err, ErrFilesystem) {
		msg := strings.TrimPrefix(err.Error(), "filesystem: ")
		return fail(verb, msg)
	}
	log.Printf("sim: unexpected error executing %s: %v", verb, err)
	return fail(verb, fmt.Sprintf("Internal error: %v", err))
}

func (c *Commands) cmdScan(args []string) Result {
	if len(args) == 0 {
		return fail("SCAN", "Usage: SCAN <target> | SCAN *")
	}
	target := args[0]

	if target == "*" {
		children := c.fs.List(true)
		if len(children) == 0 {
			return fail("SCAN", "Nothing to scan here.")
		}
		lines := []string{"SCANNING ALL..."}
		for _, child := range children {
			n, err := c.fs.Scan(child.Name)
			if err != nil {
				continue
			}
			tag := ""
			if n.HasArtifact() {
				tag = "[ART]"
			}
			lines = append(lines, fmt.Sprintf("  %-4s %-20s %-9s %3.0f%%  %s",
				n.Type.String()[:3], n.Name, n.Visibility, n.Corruption*100, tag))
		}
		return ok("SCAN", lines...)
	}

	n, err := c.fs.Scan(target)
	if err != nil {
		return playerError("SCAN", err)
	}
	lines := []string{
		fmt.Sprintf("SCANNING %s...", target),
		fmt.Sprintf("  Type:       %s", n.Type),
		fmt.Sprintf("  Visibility: %s", n.Visibility),
		fmt.Sprintf("  Corruption: %.0f%%", n.Corruption*100),
	}
	if n.HasArtifact() {
		lines = append(lines, "  [!] ARTIFACT DETECTED — run RECON to reconstruct.")
	}
	return ok("SCAN", lines...)
}

func (c *Commands) cmdCarve(args []string) Result {
	if len(args) == 0 {
		return fail("CARVE", "Usage: CARVE <target>")
	}
	target := args[0]

	n, err := c.fs.Carve(target)
	if err != nil {
		return playerError("CARVE", err)
	}
	if !n.IsFile() {
		return fail("CARVE", fmt.Sprintf(
			"Carve failed — %s corruption too high (%.0f%%).", target, n.Corruption*100))
	}
	return ok("CARVE",
		fmt.Sprintf("CARVING %s...", target),
		"  Success — debris converted to FILE.",
		fmt.Sprintf("  Corruption: %.0f%%", n.Corruption*100),
	)
}

func (c *Commands) cmdRecon(args []string) Result {
	if len(args) == 0 {
		return fail("RECON", "Usage: RECON <target>")
	}
	target := args[0]

	var node *world.Node
	for _, n := range c.fs.List(false) {
		if n.Name == target && n.Visibility == world.Revealed {
			node = n
			break
		}
	}
	if node == nil {
		return fail("RECON", fmt.Sprintf("No visible node named %q.", target))
	}
	if !node.HasArtifact() {
		return fail("RECON", fmt.Sprintf("%q contains no artifact.", target))
	}

	c.artifacts.MarkFound(node.ArtifactID)
	if !c.artifacts.Collect(node.ArtifactID, node.Corruption) {
		return fail("RECON", "Reconstruction failed — insufficient memory. SELL an artifact first.")
	}

	art := c.artifacts.Get(node.ArtifactID)
	return ok("RECON",
		fmt.Sprintf("RECONSTRUCTING %s...", target),
		fmt.Sprintf("  Artifact collected: %s", art.Name),
		fmt.Sprintf("  Condition:  %.0f%%", art.Condition*100),
		fmt.Sprintf("  Est. value: %.0f credits", art.SellValue),
	)
}

func (c *Commands) cmdSell(args []string) Result {
	if len(args) == 0 {
		collected := c.artifacts.Collected()
		if len(collected) == 0 {
			return fail("SELL", "No artifacts to sell. Collect some first.")
		}
		lines := []string{"Collected artifacts:"}
		for _, a := range collected {
			lines = append(lines, fmt.Sprintf("  %s  %s  (%.0f credits)", a.ID, a.Name, a.SellValue))
		}
		lines = append(lines, "Usage: SELL <artifact_id>")
		return ok("SELL", lines...)
	}

	id := args[0]
	earned := c.artifacts.Sell(id)
	if earned == 0 {
		return fail("SELL", fmt.Sprintf("Cannot sell %q — not found or not collected.", id))
	}
	return ok("SELL",
		fmt.Sprintf("Sold %s for %.0f credits.", id, earned),
		fmt.Sprintf("Total credits: %.0f", c.artifacts.Credits()),
	)
}

func (c *Commands) cmdLs(_ []string) Result {
	nodes := c.fs.List(false)
	if len(nodes) == 0 {
		return ok("LS", "(empty directory)")
	}

	lines := []string{c.fs.Path()}
	for _, n := range nodes {
		icon := map[world.NodeType]string{
			world.Directory: "DIR ",
			world.File:      "FILE",
			world.Debris:    "DBRS",
		}[n.Type]
		artifactFlag := ""
		if n.HasArtifact() {
			artifactFlag = " [ART]"
		}
		lines = append(lines, fmt.Sprintf("  [%s] %-24s %s  %s%s",
			icon, n.Name, corruptionBar(n.Corruption, 10), n.Visibility, artifactFlag))
	}
	return ok("LS", lines...)
}

func (c *Commands) cmdCd(args []string) Result {
	if len(args) == 0 {
		return fail("CD", "Usage: CD <directory> | CD ..")
	}
	if _, err := c.fs.ChangeDir(args[0]); err != nil {
		return playerError("CD", err)
	}
	return ok("CD", "-> "+c.fs.Path())
}

func (c *Commands) cmdPwd(_ []string) Result {
	return ok("PWD", c.fs.Path())
}

func (c *Commands) cmdStatus(_ []string) Result {
	lines := []string{"SYSTEM STATUS"}
	for _, r := range AllResources {
		lines = append(lines, fmt.Sprintf("  %-8s %s  %6.1f / %.1f",
			r, resourceBar(c.resources.Ratio(r), 12),
			c.resources.Current(r), c.resources.Maximum(r)))
	}
	lines = append(lines, fmt.Sprintf("  CREDITS  %.0f", c.artifacts.Credits()))
	return ok("STATUS", lines...)
}

func (c *Commands) cmdHelp(_ []string) Result {
	return ok("HELP",
		"AVAILABLE COMMANDS",
		"  SCAN   <target>       Reveal a node (costs POWER)",
		"  SCAN   *              Reveal ALL nodes here (costs POWER)",
		"  CARVE  <target>       Convert DEBRIS to FILE (costs POWER + ENERGY)",
		"  RECON  <target>       Reconstruct artifact (costs POWER + MEMORY)",
		"  SELL   <artifact_id>  Sell a collected artifact",
		"  LS                    List current directory",
		"  CD     <dir>          Change directory (CD .. to go up)",
		"  PWD                   Show current path",
		"  STATUS                Show resource levels",
		"  HELP                  Show this message",
		"  QUIT                  Exit the program",
	)
}

func (c *Commands) cmdQuit(_ []string) Result {
	c.events.PostImmediate(event.QuitRequested, nil, "Commands")
	return ok("QUIT", "Disconnecting from site...")
}

// corruptionBar renders a fixed-width bar like "[####......] 40%".
func corruptionBar(corruption float64, width int) string {
	filled := int(corruption*float64(width) + 0.5)
	if filled > width {
		filled = width
	}
	return fmt.Sprintf("[%s%s] %3.0f%%",
		strings.Repeat("#", filled), strings.Repeat(".", width-filled), corruption*100)
}

// resourceBar renders a fixed-width bar like "[======      ] 50%".
func resourceBar(ratio float64, width int) string {
	filled := int(ratio*float64(width) + 0.5)
	if filled > width {
		filled = width
	}
	return fmt.Sprintf("[%s%s] %3.0f%%",
		strings.Repeat("=", filled), strings.Repeat(" ", width-filled), ratio*100)
}
