package sim

// CommandType enumerates the intents a session accepts.
type CommandType string

const (
	CommandMoveLeft  CommandType = "MoveLeft"
	CommandMoveRight CommandType = "MoveRight"
	CommandJump      CommandType = "Jump"
	CommandPose      CommandType = "Pose"
)

// Command is an intent captured for processing at the start of the next tick.
// Keyboard commands carry only a type; pose commands carry the sample.
type Command struct {
	Type CommandType
	Pose *PoseSample
}
