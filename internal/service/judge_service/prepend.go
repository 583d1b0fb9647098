package judge_service

// Prepend fragments ship the stylesheets and scripts each judge's
// markup needs to render faithfully. They are static per judge.

const atcoderPrependHTML = `<!-- start -->
<script src="https://img.atcoder.jp/public/ba514ee/js/lib/jquery-1.9.1.min.js"></script>
<link rel="stylesheet" href="https://img.atcoder.jp/public/ba514ee/css/cdn/katex.min.css">
<script defer="" src="https://img.atcoder.jp/public/ba514ee/js/cdn/katex.min.js"></script>
<script defer="" src="https://img.atcoder.jp/public/ba514ee/js/cdn/auto-render.min.js"></script>
<script>$(function () { $('var').each(function () { var html = $(this).html().replace(/<sub>/g, '_{').replace(/<\/sub>/g, '}'); $(this).html('\\(' + html + '\\)'); }); });</script>
<script>
    var katexOptions = {
        delimiters: [
            { left: "$$", right: "$$", display: true },
            { left: "\\(", right: "\\)", display: false },
            { left: "\\[", right: "\\]", display: true }
        ],
        ignoredTags: ["script", "noscript", "style", "textarea", "code", "option"],
        ignoredClasses: ["prettyprint", "source-code-for-copy"],
        throwOnError: false
    };
    document.addEventListener("DOMContentLoaded", function () { renderMathInElement(document.body, katexOptions); });
</script>
<style type="text/css">
        section pre {
            display: block;
            padding: 9.5px;
            margin: 0 0 10px;
            font-size: 13px;
            line-height: 1.42857143;
            word-break: break-all;
            word-wrap: break-word;
            color: #333;
            background: rgba(255, 255, 255, 0.5);
            border: 1px solid #ccc;
            border-radius: 6px;
        }
    </style>
<!-- End -->
`

const spojPrependHTML = `<style type="text/css">
    #problem-body > pre {
        display: block;
        padding: 9.5px;
        margin: 0 0 10px;
        font-size: 13px;
        line-height: 1.42857143;
        word-break: break-all;
        word-wrap: break-word;
        color: #333;
        background: rgba(255, 255, 255, 0.5);
        border: 1px solid #ccc;
        border-radius: 6px;
    }
</style>`

const codeforcesPrependHTML = `<!-- start -->
<link rel="stylesheet" href="https://codeforces.org/s/0/css/problem-statement.css">
<link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/katex@0.16.9/dist/katex.min.css">
<script defer src="https://cdn.jsdelivr.net/npm/katex@0.16.9/dist/katex.min.js"></script>
<script defer src="https://cdn.jsdelivr.net/npm/katex@0.16.9/dist/contrib/auto-render.min.js"></script>
<script>
    document.addEventListener("DOMContentLoaded", function () {
        renderMathInElement(document.body, {
            delimiters: [
                { left: "$$$$$$", right: "$$$$$$", display: true },
                { left: "$$$", right: "$$$", display: false }
            ],
            throwOnError: false
        });
    });
</script>
<style type="text/css">
    .sample-test pre {
        display: block;
        padding: 9.5px;
        margin: 0 0 10px;
        line-height: 1.42857143;
        color: #333;
        background: rgba(255, 255, 255, 0.5);
        border: 1px solid #ccc;
        border-radius: 6px;
    }
</style>
<!-- End -->
`
