package core

import "github.com/ajitpratap0/meshtrader/internal/assets"

// CommandKind tags which variant of Command the supervisor received.
type CommandKind int

const (
	// CommandCreateModel forwards to an external model builder; building
	// and hot-swapping strategy models is out of scope for this core.
	CommandCreateModel CommandKind = iota
	CommandExitPosition
	CommandExitAllPositions
	CommandTerminate
)

// Command is a remote instruction accepted by Core.Run.
type Command struct {
	Kind   CommandKind
	Asset  assets.Asset
	Reason string
}

func CreateModel(asset assets.Asset) Command { return Command{Kind: CommandCreateModel, Asset: asset} }
func ExitPosition(asset assets.Asset) Command {
	return Command{Kind: CommandExitPosition, Asset: asset}
}
func ExitAllPositions() Command { return Command{Kind: CommandExitAllPositions} }
func Terminate(reason string) Command {
	return Command{Kind: CommandTerminate, Reason: reason}
}
