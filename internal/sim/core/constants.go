package core

// Simulation constants. These are fixed for every episode.
const (
	GridSize  = 10
	NumAgents = 5
	MaxSteps  = 100

	LearningRate  = 0.1
	SuccessReward = 1.0
	FailureReward = -0.01
)

// Rand is the random source the simulation draws from. *rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}
