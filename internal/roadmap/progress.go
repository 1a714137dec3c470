package roadmap

// FeatureProgress is the rounded percentage of completed tasks, 0 for a
// feature without tasks.
func FeatureProgress(f *Feature) int {
	completed := 0
	for _, t := range f.Tasks {
		if t.Status == StatusCompleted {
			completed++
		}
	}
	return roundedPercent(100*completed, len(f.Tasks))
}

// TotalProgress is the rounded mean of the feature percentages. Every feature
// weighs the same regardless of its task count.
func TotalProgress(r *Roadmap) int {
	sum := 0
	for _, f := range r.Features {
		sum += f.Progress
	}
	return roundedPercent(sum, len(r.Features))
}

// Aggregate recomputes every feature's progress and then the project total.
func Aggregate(r *Roadmap) {
	for i := range r.Features {
		r.Features[i].Progress = FeatureProgress(&r.Features[i])
	}
	r.ProjectInfo.TotalProgress = TotalProgress(r)
}

// roundedPercent returns num/den rounded half up, or 0 when den is 0.
func roundedPercent(num, den int) int {
	if den == 0 {
		return 0
	}
	return (2*num + den) / (2 * den)
}
