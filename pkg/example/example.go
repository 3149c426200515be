// Package example содержит две чистые функции: форматирование приветствия
// и сложение целых чисел.
package example

// Greet возвращает приветствие вида "Hello, <name>!".
// Пустое имя допустимо: Greet("") == "Hello, !".
func Greet(name string) string {
	return "Hello, " + name + "!"
}

// AddNumbers возвращает сумму a и b. Переполнение не обрабатывается.
func AddNumbers(a, b int) int {
	return a + b
}
