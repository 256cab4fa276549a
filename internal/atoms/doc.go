// Package atoms загружает определения атомов, quirk'ов и фраз из TOML.
//
// Каталог определений — набор *.toml файлов; файлы читаются в
// лексикографическом порядке имён, атомы внутри файла — в порядке
// записи. Этот суммарный порядок сохраняется в AtomSet и задаёт
// детерминированность порядка вычисления при прочих равных.
//
// Загрузчик валидирует структуру (вид атома, ключи, веса) и разбирает
// каждое выражение правила движком: файл с ошибкой отклоняется целиком
// с указанием пути и места проблемы.
package atoms
