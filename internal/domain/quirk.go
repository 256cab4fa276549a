package domain

// QuirkDef — определение quirk'а: поведенческой особенности persona.
//
// Quirk назначается автоматически, когда выполняются его условия:
//   - AnyOf — хотя бы одно условие истинно,
//   - AllOf — все условия истинны.
//
// Непустые AnyOf и AllOf сочетаются конъюнктивно. Условия — выражения
// языка правил; ненулевой результат означает истину, любая ошибка
// вычисления — ложь.
type QuirkDef struct {
	// Key — уникальный ключ quirk'а ("night-owl", "rubber-duck").
	Key string `json:"key" toml:"key"`

	// Description — человекочитаемое описание.
	Description string `json:"description,omitempty" toml:"description"`

	// AnyOf — список условий, из которых достаточно одного.
	AnyOf []string `json:"any_of,omitempty" toml:"any_of"`

	// AllOf — список условий, которые должны выполниться все.
	AllOf []string `json:"all_of,omitempty" toml:"all_of"`
}

// PhraseDef — фраза persona с условиями употребления.
// Семантика условий та же, что у QuirkDef.
type PhraseDef struct {
	// Text — текст фразы.
	Text string `json:"text" toml:"text"`

	// Tone — тональность ("dry", "warm", "blunt").
	Tone string `json:"tone,omitempty" toml:"tone"`

	// AnyOf — список условий, из которых достаточно одного.
	AnyOf []string `json:"any_of,omitempty" toml:"any_of"`

	// AllOf — список условий, которые должны выполниться все.
	AllOf []string `json:"all_of,omitempty" toml:"all_of"`
}
