package trader

import "github.com/ajitpratap0/meshtrader/internal/assets"

// CommandKind tags which variant of Command is populated.
type CommandKind int

const (
	// CommandExitPosition asks the Trader for asset to synthesize a
	// ForceExit for its open position, if any.
	CommandExitPosition CommandKind = iota
	// CommandTerminate asks the Trader to stop its run loop promptly.
	CommandTerminate
)

// Command is a supervisor instruction delivered out-of-band from market
// data, drained non-blockingly at the top of every outer-loop iteration.
type Command struct {
	Kind   CommandKind
	Asset  assets.Asset
	Reason string
}

// ExitPosition builds the command a Core sends to one Trader (or every
// Trader, for ExitAllPositions) to force-close asset's open position.
func ExitPosition(asset assets.Asset) Command {
	return Command{Kind: CommandExitPosition, Asset: asset}
}

// Terminate builds the command that ends a Trader's run loop.
func Terminate(reason string) Command {
	return Command{Kind: CommandTerminate, Reason: reason}
}
