package i18n

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "option" or "field").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "default_conflict":
			return "default と default_factory は同時に指定できません"
		case "forbidden_qualifier":
			return "この位置では修飾子を使用できません"
		case "constraint_mismatch":
			return "制約が型に適用できません"
		case "computed_override":
			return "computed フィールドの上書きは許可されていません"
		case "invalid_declaration":
			return "宣言が不正です"
		case "unknown_option":
			return "未知のオプションです"
		case "removed-kwargs":
			return "削除されたオプションです"
		case "deprecated-kwargs":
			return "非推奨のオプションです"
		case "extra_merge_conflict":
			return "json_schema_extra のマッピングと呼び出し可能オブジェクトはマージできません"
		case "unresolved_reference":
			return "参照を解決できません"
		case "schema_incomplete":
			return "スキーマは未完成です。rebuild を呼び出してください"
		}
	default: // "en"
		switch code {
		case "default_conflict":
			return "default and default_factory are mutually exclusive"
		case "forbidden_qualifier":
			return "qualifier is not allowed at this position"
		case "constraint_mismatch":
			return "constraint does not apply to the resolved type"
		case "computed_override":
			return "overriding a computed field is not allowed"
		case "invalid_declaration":
			return "invalid declaration"
		case "unknown_option":
			return "unknown option"
		case "removed-kwargs":
			return "option has been removed"
		case "deprecated-kwargs":
			return "option is deprecated"
		case "extra_merge_conflict":
			return "json_schema_extra mapping and callable cannot be merged"
		case "unresolved_reference":
			return "reference cannot be resolved yet"
		case "schema_incomplete":
			return "schema is incomplete; call rebuild first"
		}
	}
	return code
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
