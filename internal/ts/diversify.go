package ts

// accumulateFrequency увеличивает счётчик каждого элемента лучшего решения.
func (s *search) accumulateFrequency() {
	for _, el := range s.best.Elements {
		s.freq[el]++
	}
}

// diversify табуирует ceil(|sol|/2) самых частых элементов лучшего решения,
// обнуляет частоты и возвращает текущее решение к лучшему.
func (s *search) diversify() {
	m := (s.sol.Len() + 1) / 2
	for r := 0; r < m; r++ {
		el := mostFrequent(s.freq)
		s.tl.EvictOldest()
		s.tl.Push(some(el))
		s.freq[el] = 0
	}
	clear(s.freq)
	s.sol = s.best.Clone()
	s.diversifications++
}

// mostFrequent возвращает индекс максимума; при равенстве наименьший индекс.
func mostFrequent(freq []int) int {
	best := 0
	for i := 1; i < len(freq); i++ {
		if freq[best] < freq[i] {
			best = i
		}
	}
	return best
}
