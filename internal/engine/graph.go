package engine

import (
	"log/slog"
	"strings"
)

// ExtractDependencies собирает из AST все ссылки на target'ы.
//
// Зависимостью считается каждый Ident с пространством имён из
// {trait, skill, exp, experience, stack}. Числа, base/current и имена
// функций зависимостями не являются. Результат — в порядке появления
// в выражении, без дубликатов.
func ExtractDependencies(expr Expr) []string {
	var deps []string
	seen := make(map[string]struct{})

	var walk func(Expr)
	walk = func(e Expr) {
		switch node := e.(type) {
		case *Ident:
			if !knownNamespace(node.Namespace) {
				return
			}
			target := node.Target()
			if _, ok := seen[target]; ok {
				return
			}
			seen[target] = struct{}{}
			deps = append(deps, target)

		case *BinaryExpr:
			walk(node.Left)
			walk(node.Right)

		case *CompareExpr:
			walk(node.Left)
			walk(node.Right)

		case *CallExpr:
			for _, arg := range node.Args {
				walk(arg)
			}
		}
	}

	walk(expr)
	return deps
}

// knownNamespace проверяет пространство имён зависимости.
func knownNamespace(ns string) bool {
	switch ns {
	case "trait", "skill", "exp", "experience", "stack":
		return true
	default:
		return false
	}
}

// DependencyGraph — граф зависимостей между target'ами.
//
// Target'ы интернируются в индексы, рёбра хранятся списками смежности
// над индексами. Ребро ведёт от target'а правила к каждому target'у,
// на который ссылается выражение; рёбра всех правил одного target'а
// объединяются.
type DependencyGraph struct {
	// targets — интернированные target'ы, индекс — идентификатор узла.
	// Порядок совпадает с порядком вставки в коллекцию правил.
	targets []string

	// index — обратное отображение target → индекс.
	index map[string]int

	// edges — edges[i] содержит индексы зависимостей узла i.
	edges [][]int
}

// BuildDependencyGraph строит граф по разобранным правилам.
//
// Узлами становятся только target'ы правил: ссылка на target без
// правил ничего не упорядочивает — такой target всегда доступен
// со своим anchor/base значением.
func BuildDependencyGraph(rules []*ParsedRule) *DependencyGraph {
	g := &DependencyGraph{index: make(map[string]int)}

	for _, rule := range rules {
		g.intern(rule.Target)
	}

	for _, rule := range rules {
		from := g.index[rule.Target]
		for _, dep := range ExtractDependencies(rule.AST) {
			to, ok := g.index[dep]
			if !ok {
				continue
			}
			g.addEdge(from, to)
		}
	}

	return g
}

// intern добавляет target как узел, если его ещё нет.
func (g *DependencyGraph) intern(target string) int {
	if idx, ok := g.index[target]; ok {
		return idx
	}
	idx := len(g.targets)
	g.targets = append(g.targets, target)
	g.index[target] = idx
	g.edges = append(g.edges, nil)
	return idx
}

// addEdge добавляет ребро from → to без дубликатов.
func (g *DependencyGraph) addEdge(from, to int) {
	for _, existing := range g.edges[from] {
		if existing == to {
			return
		}
	}
	g.edges[from] = append(g.edges[from], to)
}

// Size возвращает количество узлов.
func (g *DependencyGraph) Size() int {
	return len(g.targets)
}

// Targets возвращает target'ы графа в порядке вставки.
func (g *DependencyGraph) Targets() []string {
	return g.targets
}

// Dependencies возвращает зависимости target'а.
func (g *DependencyGraph) Dependencies(target string) []string {
	idx, ok := g.index[target]
	if !ok {
		return nil
	}
	deps := make([]string, 0, len(g.edges[idx]))
	for _, to := range g.edges[idx] {
		deps = append(deps, g.targets[to])
	}
	return deps
}

// IsCircular сообщает, есть ли в графе хотя бы один цикл.
func (g *DependencyGraph) IsCircular() bool {
	return len(g.findCycles()) > 0
}

// dfs-раскраска узлов при поиске циклов.
const (
	colorWhite = 0 // не посещён
	colorGray  = 1 // в текущем пути обхода
	colorBlack = 2 // полностью обработан
)

// findCycles находит циклы трёхцветным DFS.
//
// Каждый найденный цикл возвращается как срез его участников
// (без повторения замыкающего узла). Узел попадает максимум
// в один цикл; пересекающиеся циклы сливаются в один.
func (g *DependencyGraph) findCycles() [][]int {
	color := make([]int, len(g.targets))
	inCycle := make([]bool, len(g.targets))
	var cycles [][]int

	// path — текущий стек обхода для восстановления цикла
	var path []int

	var visit func(int)
	visit = func(node int) {
		color[node] = colorGray
		path = append(path, node)

		for _, next := range g.edges[node] {
			switch color[next] {
			case colorWhite:
				visit(next)
			case colorGray:
				// Обратное ребро: участок path от next до node — цикл
				start := len(path) - 1
				for start >= 0 && path[start] != next {
					start--
				}
				var cycle []int
				merged := false
				for _, member := range path[start:] {
					if inCycle[member] {
						merged = true
					}
					inCycle[member] = true
					cycle = append(cycle, member)
				}
				if merged {
					// Участник уже входит в найденный цикл — расширяем его
					cycles = mergeCycle(cycles, cycle, inCycle)
				} else {
					cycles = append(cycles, cycle)
				}
			}
		}

		path = path[:len(path)-1]
		color[node] = colorBlack
	}

	for node := range g.targets {
		if color[node] == colorWhite {
			visit(node)
		}
	}

	return cycles
}

// mergeCycle вливает новый цикл в уже найденный с общим участником.
func mergeCycle(cycles [][]int, cycle []int, inCycle []bool) [][]int {
	members := make(map[int]struct{}, len(cycle))
	for _, m := range cycle {
		members[m] = struct{}{}
	}

	for i, existing := range cycles {
		for _, m := range existing {
			if _, ok := members[m]; ok {
				for _, add := range cycle {
					found := false
					for _, have := range cycles[i] {
						if have == add {
							found = true
							break
						}
					}
					if !found {
						cycles[i] = append(cycles[i], add)
					}
				}
				return cycles
			}
		}
	}

	return append(cycles, cycle)
}

// EvaluationOrder строит безопасный порядок вычисления target'ов.
//
// Возвращает:
//   - order — топологический порядок ациклической части графа:
//     каждая зависимость раньше своего зависимого. При прочих равных
//     порядок следует порядку вставки в коллекцию правил, поэтому
//     для одинакового входа результат всегда одинаков.
//   - cycles — найденные циклы; их участники в order не входят
//     и по правилам не вычисляются (сохраняют anchor/base значение).
func EvaluationOrder(rules []*ParsedRule) (order []string, cycles [][]string) {
	g := BuildDependencyGraph(rules)
	return g.EvaluationOrder()
}

// EvaluationOrder — то же, что свободная функция, но над готовым графом.
func (g *DependencyGraph) EvaluationOrder() (order []string, cycles [][]string) {
	rawCycles := g.findCycles()

	excluded := make([]bool, len(g.targets))
	for _, cycle := range rawCycles {
		members := make([]string, 0, len(cycle))
		for _, idx := range cycle {
			excluded[idx] = true
			members = append(members, g.targets[idx])
		}
		cycles = append(cycles, members)
	}

	// Алгоритм Кана над ациклическим остатком.
	// indegree узла — количество его невычисленных зависимостей.
	indegree := make([]int, len(g.targets))
	dependents := make([][]int, len(g.targets))
	for from := range g.edges {
		if excluded[from] {
			continue
		}
		for _, to := range g.edges[from] {
			if excluded[to] {
				continue
			}
			indegree[from]++
			dependents[to] = append(dependents[to], from)
		}
	}

	done := make([]bool, len(g.targets))
	remaining := 0
	for idx := range g.targets {
		if !excluded[idx] {
			remaining++
		}
	}

	order = make([]string, 0, remaining)
	for len(order) < remaining {
		// Выбираем готовый узел с минимальным индексом вставки —
		// это и есть детерминированный tie-break
		next := -1
		for idx := range g.targets {
			if excluded[idx] || done[idx] || indegree[idx] != 0 {
				continue
			}
			next = idx
			break
		}
		if next == -1 {
			// Недостижимо после исключения циклов, но не зацикливаемся
			break
		}

		done[next] = true
		order = append(order, g.targets[next])
		for _, dep := range dependents[next] {
			indegree[dep]--
		}
	}

	return order, cycles
}

// FormatCycle форматирует цикл в человекочитаемую цепочку:
// "trait.caution → trait.boldness → trait.caution".
func FormatCycle(cycle []string) string {
	if len(cycle) == 0 {
		return ""
	}
	return strings.Join(append(append([]string{}, cycle...), cycle[0]), " → ")
}

// LogCircularDependency пишет нефатальную диагностику о цикле.
// Участники цикла не вычисляются по правилам и сохраняют
// своё anchor/base значение.
func LogCircularDependency(logger *slog.Logger, cycle []string) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Warn("circular dependency detected, targets keep their anchor/base values",
		"cycle", FormatCycle(cycle),
	)
}
