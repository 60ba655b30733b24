package sim

// stagePromotions defines the legal forward transitions. Production is
// terminal; there is no promotion out of it.
var stagePromotions = map[DeployStage]DeployStage{
	StageDraft:   StageStaging,
	StageStaging: StageProduction,
}

// FriendlyName returns the display form of a deploy stage.
func (s DeployStage) FriendlyName() string {
	switch s {
	case StageDraft:
		return "Draft"
	case StageStaging:
		return "Staging"
	case StageProduction:
		return "Production"
	default:
		return string(s)
	}
}
