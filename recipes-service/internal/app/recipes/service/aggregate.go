package service

// Инкрементальные формулы пересчета среднего рейтинга.
// Агрегат (avg, n) обновляется без чтения всех оценок рецепта,
// стоимость операции не зависит от их количества.

// addToAggregate добавляет новую оценку к агрегату
func addToAggregate(avg float64, n int64, value float64) (float64, int64) {
	newN := n + 1
	newAvg := avg + (value-avg)/float64(newN)
	return newAvg, newN
}

// replaceInAggregate заменяет значение существующей оценки
// Количество оценок не меняется
func replaceInAggregate(avg float64, n int64, oldValue, newValue float64) (float64, int64) {
	if n == 0 {
		return 0, 0
	}
	newAvg := (avg*float64(n) - oldValue + newValue) / float64(n)
	return newAvg, n
}

// removeFromAggregate убирает оценку из агрегата
// При n <= 1 агрегат принудительно обнуляется: деление на n-1 здесь
// либо невозможно, либо накапливает ошибку округления вместо чистого нуля
func removeFromAggregate(avg float64, n int64, value float64) (float64, int64) {
	if n <= 1 {
		newN := n - 1
		if newN < 0 {
			newN = 0
		}
		return 0, newN
	}
	newAvg := (avg*float64(n) - value) / float64(n-1)
	return newAvg, n - 1
}
