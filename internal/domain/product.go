package domain

// ProductSnapshot — транзиентный результат валидации товара удалённым
// сервисом. Используется только для расчёта тоталов и обогащения ответов,
// никогда не сохраняется.
type ProductSnapshot struct {
	ID         string
	Name       string
	PriceMinor int64
}

// SnapshotIndex — отображение productID -> снапшот для константного поиска.
type SnapshotIndex map[string]ProductSnapshot

// IndexSnapshots строит индекс по идентификатору товара. При дубликатах
// побеждает первый снапшот — это сохраняет семантику первого совпадения
// при линейном поиске.
func IndexSnapshots(snapshots []ProductSnapshot) SnapshotIndex {
	index := make(SnapshotIndex, len(snapshots))
	for _, snapshot := range snapshots {
		if _, exists := index[snapshot.ID]; exists {
			continue
		}
		index[snapshot.ID] = snapshot
	}
	return index
}
