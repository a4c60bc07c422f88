package semtok

/*
Implementation Details & Notes:
-----------------------------

Highlight -> Semantic Token Mapping:

    Category                 ->   Token Type
    --------                      ----------
    keyword                  ->   keyword
    string / number          ->   string / number
    line / block comment     ->   comment
    punctuation, operators   ->   operator
    data-declaration         ->   class
    trait-declaration        ->   interface
    effect-declaration       ->   type
    function-declaration     ->   function (declaration)
    function-call            ->   function
    property-declaration     ->   property
    named argument           ->   parameter
    type-parameter           ->   typeParameter
    parameter                ->   parameter

Position Handling:
-----------------
Highlights are byte offsets. LSP clients address text by 0-based line and
UTF-16 character, so every span is cut at newlines and measured in UTF-16
code units from the start of its line.

    Byte Offset     ->    LSP Position
    -----------           -------------
    Start, End            Line:Character, Length
*/
