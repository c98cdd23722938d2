// Package prompt holds the fixed instruction sent to the vision model together with the photo.
package prompt

// Analysis asks the model for a teen-oriented skin report as a bare JSON object with six
// scored sections, the overall skin type, a summary and three tips.
const Analysis = `Ты эксперт-дерматолог по подростковой коже. Проанализируй это селфи и дай структурированный отчёт.

Верни ТОЛЬКО валидный JSON без markdown в следующем формате:
{
  "oiliness": {
    "level": "низкий" | "средний" | "высокий",
    "score": 1-10,
    "comment": "короткое описание 1-2 предложения"
  },
  "inflammation": {
    "level": "нет" | "слабое" | "умеренное" | "сильное",
    "score": 1-10,
    "comment": "короткое описание 1-2 предложения"
  },
  "pores": {
    "level": "незаметные" | "умеренные" | "расширенные",
    "score": 1-10,
    "comment": "короткое описание 1-2 предложения"
  },
  "texture": {
    "level": "гладкая" | "неровная" | "шероховатая",
    "score": 1-10,
    "comment": "короткое описание 1-2 предложения"
  },
  "pigmentation": {
    "level": "нет" | "слабая" | "выраженная",
    "score": 1-10,
    "comment": "короткое описание 1-2 предложения"
  },
  "overall_skin_type": "жирная" | "сухая" | "комбинированная" | "нормальная" | "чувствительная",
  "summary": "общий вывод 2-3 предложения, дружелюбный тон для подростка",
  "top_tips": ["совет 1", "совет 2", "совет 3"]
}`
