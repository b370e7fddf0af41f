package tasks

import "github.com/desertthunder/spotstats/internal/models"

// AverageFeatures computes the mean of each feature in [models.FeatureNames] over the records that carry it.
//
// A feature no record carries averages to 0. No records at all yields an empty map.
func AverageFeatures(records []models.AudioFeatures) map[string]float64 {
	averages := make(map[string]float64, len(models.FeatureNames))
	if len(records) == 0 {
		return averages
	}

	for _, name := range models.FeatureNames {
		var sum float64
		var n int
		for _, r := range records {
			if v, ok := r.Values[name]; ok {
				sum += v
				n++
			}
		}

		if n > 0 {
			averages[name] = sum / float64(n)
		} else {
			averages[name] = 0
		}
	}
	return averages
}
