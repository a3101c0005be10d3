package logging

// Shortcuts for event types.
// Any event that happens multiple times should have a single character representation
const (
	ServiceStarted      = "start"
	ServiceStopped      = "stop"
	UnitCreated         = "U"
	UnitAdded           = "A"
	UnitOrdered         = "O"
	LinearOrderExtended = "L"
	HeadElected         = "H"
	RoundSkipped        = "K"
	ForkDetected        = "F"
	InvalidUnit         = "I"
	DuplicateUnit       = "D"
	UnknownParents      = "W"
	WaitingRoomFull     = "X"
	WaitingExpired      = "Y"
	NotEnoughParents    = "Z"
	StartingRound       = "B"
	SignatureAccepted   = "G"
	InvalidSignature    = "V"
	AggregationComplete = "C"
	SendFailed          = "Q"
	SessionsLeft        = "S"
	MemoryUsage         = "M"
	TaskExited          = "E"
	OffspringTerminated = "o"
	Terminated          = "t"
)

// eventTypeDict maps short event names to human readable form
var eventTypeDict = map[string]string{
	UnitCreated:         "new unit created",
	UnitAdded:           "unit added to the dag",
	UnitOrdered:         "unit ordered",
	LinearOrderExtended: "linear order extended",
	HeadElected:         "head of a round elected",
	RoundSkipped:        "round skipped, every candidate rejected",
	ForkDetected:        "fork detected",
	InvalidUnit:         "invalid unit dropped",
	DuplicateUnit:       "duplicate unit ignored",
	UnknownParents:      "unit waiting for parents",
	WaitingRoomFull:     "waiting room full, unit dropped",
	WaitingExpired:      "unit waited too long for parents, dropped",
	NotEnoughParents:    "not enough parents to create a unit",
	StartingRound:       "starting round received",
	SignatureAccepted:   "partial signature accepted",
	InvalidSignature:    "invalid signature ignored",
	AggregationComplete: "multisignature complete",
	SendFailed:          "send to peer failed",
	SessionsLeft:        "multisignature sessions left open",
	MemoryUsage:         "memory usage",
	TaskExited:          "task exited",
	OffspringTerminated: "offspring terminated",
	Terminated:          "terminated",
}

// Field names
const (
	Time      = "T"
	Level     = "L"
	Event     = "E"
	Service   = "S"
	Size      = "N"
	Round     = "R"
	Creator   = "C"
	PID       = "P"
	Hash      = "H"
	Fork      = "F"
	Task      = "K"
	Offspring = "O"
	Memory    = "M"
	Early     = "Y"
)

// fieldNameDict maps short field names to human readable form
var fieldNameDict = map[string]string{
	Time:      "time",
	Level:     "level",
	Event:     "event",
	Service:   "service",
	Size:      "size",
	Round:     "round",
	Creator:   "creator",
	PID:       "PID",
	Hash:      "hash",
	Fork:      "fork",
	Task:      "task",
	Offspring: "offspring",
	Memory:    "memory",
	Early:     "early",
}

// Service types
const (
	TerminalService int = iota
	CreatorService
	ExtenderService
	RMCService
	TerminatorService
	ConsensusService
	NetworkService
	MemLogService
)

// serviceTypeDict maps integer service types to human readable names
var serviceTypeDict = map[int]string{
	TerminalService:   "TERMINAL",
	CreatorService:    "CREATOR",
	ExtenderService:   "EXTEND",
	RMCService:        "RMC",
	TerminatorService: "TERM",
	ConsensusService:  "CONSENS",
	NetworkService:    "NETWORK",
	MemLogService:     "MEMLOG",
}

// Genesis was better with Phil Collins
const Genesis = "genesis"
