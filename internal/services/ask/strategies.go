package ask

import (
	"github.com/ternarybob/arbor"

	"climatelens/internal/interfaces"
)

// Retrieval policy constants
const (
	// stationRadiusKm bounds the nearest-station search
	stationRadiusKm = 50.0

	// fuzzyRowCap bounds the fuzzy emissions fallback result set
	fuzzyRowCap = 1000

	// cumulativeStartYear is where cumulative emission sums begin
	cumulativeStartYear = 1850

	// vectorCandidatePool is how many embedded chunks are scanned per
	// vector search
	vectorCandidatePool = 100

	// defaultReportK / defaultTopEmittersK apply when the classifier omits k
	defaultReportK      = 3
	defaultTopEmittersK = 5

	// ragFallbackK is the excerpt count for excerpts-only answers
	ragFallbackK = 5
)

// Strategies implements one retrieval strategy per catalog action. Every
// strategy returns a RetrievalResult: not-found is a summary with empty
// citations, never an error. Only storage and provider failures error.
type Strategies struct {
	emissions interfaces.EmissionStorage
	weather   interfaces.WeatherStorage
	reports   interfaces.ReportStorage
	embedding interfaces.EmbeddingService
	geocode   interfaces.GeocodeService
	logger    arbor.ILogger
}

// NewStrategies creates the strategy set over its collaborators
func NewStrategies(
	storage interfaces.StorageManager,
	embedding interfaces.EmbeddingService,
	geocode interfaces.GeocodeService,
	logger arbor.ILogger,
) *Strategies {
	return &Strategies{
		emissions: storage.Emissions(),
		weather:   storage.Weather(),
		reports:   storage.Reports(),
		embedding: embedding,
		geocode:   geocode,
		logger:    logger,
	}
}
